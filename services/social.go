// services/social.go - Comments, Likes, Friends, Messages
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"questcraft/models"
	"questcraft/utils"
)

type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

// CommentOnQuest stores a profanity-filtered comment and re-evaluates
// achievements (commenting feeds the active_commenter criterion).
func (s *SocialService) CommentOnQuest(userID, questID uint, text string) (*models.QuestComment, []models.Achievement, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, &ValidationError{Msg: "comment text is required"}
	}

	var comment models.QuestComment
	var newAchievements []models.Achievement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quest models.Quest
		if err := tx.First(&quest, questID).Error; err != nil {
			return notFound("quest", err)
		}

		comment = models.QuestComment{
			QuestID: questID,
			UserID:  userID,
			Text:    utils.FilterProfanity(text),
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			return notFound("user", err)
		}
		var err error
		newAchievements, err = CheckAchievements(tx, &user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &comment, newAchievements, nil
}

// LikeAssignment likes a completed assignment. Only completed quests can be
// liked, never your own, and never twice.
func (s *SocialService) LikeAssignment(userID, assignmentID uint) (*models.QuestLike, error) {
	var like models.QuestLike
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.QuestAssignment
		if err := tx.Preload("Quest").First(&assignment, assignmentID).Error; err != nil {
			return notFound("assignment", err)
		}
		if !assignment.IsCompleted {
			return &StateConflictError{Msg: "only completed quests can be liked"}
		}
		if assignment.UserID == userID {
			return &StateConflictError{Msg: "cannot like your own quest"}
		}

		var existing models.QuestLike
		err := tx.Where("assignment_id = ? AND user_id = ?", assignmentID, userID).First(&existing).Error
		if err == nil {
			return &StateConflictError{Msg: "already liked"}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		like = models.QuestLike{AssignmentID: assignmentID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}

		var liker models.User
		if err := tx.First(&liker, userID).Error; err != nil {
			return notFound("user", err)
		}
		return notify(tx, assignment.UserID,
			"New like!",
			fmt.Sprintf("%s liked your completed quest: %s", liker.Username, assignment.Quest.Title),
			models.JSONMap{"quest_id": assignment.QuestID, "type": models.NotifyQuestLiked})
	})
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Unlike removes the caller's own like.
func (s *SocialService) Unlike(userID, likeID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var like models.QuestLike
		if err := tx.First(&like, likeID).Error; err != nil {
			return notFound("like", err)
		}
		if like.UserID != userID {
			return &NotFoundError{Msg: "like not found"}
		}
		return tx.Delete(&like).Error
	})
}

// SendFriendRequest creates a pending request; duplicate pairs conflict.
func (s *SocialService) SendFriendRequest(fromUserID, toUserID uint) (*models.FriendRequest, error) {
	if fromUserID == toUserID {
		return nil, &ValidationError{Msg: "cannot friend yourself"}
	}

	var request models.FriendRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.First(&target, toUserID).Error; err != nil {
			return notFound("user", err)
		}

		var existing models.FriendRequest
		err := tx.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
			First(&existing).Error
		if err == nil {
			return &StateConflictError{Msg: "friend request already sent"}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		request = models.FriendRequest{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Status:     models.FriendRequestPending,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// RespondToFriendRequest accepts or rejects a pending request addressed to
// the caller.
func (s *SocialService) RespondToFriendRequest(userID, requestID uint, accept bool) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			return notFound("friend request", err)
		}
		if request.ToUserID != userID {
			return &NotFoundError{Msg: "friend request not found"}
		}
		if request.Status != models.FriendRequestPending {
			return &StateConflictError{Msg: "friend request already answered"}
		}

		request.Status = models.FriendRequestRejected
		if accept {
			request.Status = models.FriendRequestAccepted
		}
		return tx.Model(&request).Update("status", request.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// SendMessage stores a profanity-filtered direct message.
func (s *SocialService) SendMessage(senderID, receiverID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Msg: "message text is required"}
	}

	var message models.Message
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var receiver models.User
		if err := tx.First(&receiver, receiverID).Error; err != nil {
			return notFound("user", err)
		}

		message = models.Message{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Text:       utils.FilterProfanity(text),
		}
		return tx.Create(&message).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}
