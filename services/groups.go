// services/groups.go - Groups and Group Goals
package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"questcraft/models"
	"questcraft/utils"
)

// Every member receives this much XP when a group goal completes.
const groupGoalReward = 50

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// Join adds the user to a public group; joining twice is a no-op.
func (s *GroupService) Join(userID, groupID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, groupID).Error; err != nil {
			return notFound("group", err)
		}
		if !group.IsPublic {
			return &StateConflictError{Msg: "group is private"}
		}

		member := models.GroupMember{GroupID: groupID, UserID: userID}
		return tx.Where(models.GroupMember{GroupID: groupID, UserID: userID}).
			FirstOrCreate(&member).Error
	})
}

// Leave removes the user from the group; leaving a group you are not in
// conflicts.
func (s *GroupService) Leave(userID, groupID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, groupID).Error; err != nil {
			return notFound("group", err)
		}

		res := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&models.GroupMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateConflictError{Msg: "not a member of this group"}
		}
		return nil
	})
}

// IsMember reports group membership.
func (s *GroupService) IsMember(tx *gorm.DB, groupID, userID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// Contribute adds XP toward a group goal. The contribution that first
// reaches the target latches the goal, stamps the completion time and pays
// the flat reward to every member, each with their own notification. Later
// contributions still accumulate but never re-fire the reward.
func (s *GroupService) Contribute(userID, goalID uint, amount int) (*models.GroupGoal, error) {
	if amount <= 0 {
		return nil, &ValidationError{Msg: "contribution must be positive"}
	}

	var goal models.GroupGoal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&goal, goalID).Error; err != nil {
			return notFound("group goal", err)
		}

		member, err := s.IsMember(tx, goal.GroupID, userID)
		if err != nil {
			return err
		}
		if !member {
			return &StateConflictError{Msg: "not a member of this group"}
		}

		goal.CurrentXP += amount
		updates := map[string]any{"current_xp": goal.CurrentXP}

		completedNow := goal.CurrentXP >= goal.TargetXP && !goal.IsCompleted
		if completedNow {
			now := time.Now().UTC()
			goal.IsCompleted = true
			goal.CompletedAt = &now
			updates["is_completed"] = true
			updates["completed_at"] = now
		}
		if err := tx.Model(&goal).Updates(updates).Error; err != nil {
			return err
		}
		if !completedNow {
			return nil
		}

		var group models.Group
		if err := tx.First(&group, goal.GroupID).Error; err != nil {
			return notFound("group", err)
		}

		var members []models.User
		err = forUpdate(tx).Joins("JOIN group_members ON group_members.user_id = users.id").
			Where("group_members.group_id = ?", goal.GroupID).
			Find(&members).Error
		if err != nil {
			return err
		}

		for i := range members {
			_, err := GrantXP(tx, &members[i], groupGoalReward,
				"Group goal completed: "+goal.Title,
				models.JSONMap{"goal_id": goal.ID})
			if err != nil {
				return err
			}
			err = notify(tx, members[i].ID,
				"Group goal completed!",
				fmt.Sprintf("Group %s completed the goal: %s", group.Name, goal.Title),
				models.JSONMap{"goal_id": goal.ID, "type": models.NotifyGroupGoalCompleted})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// CommentOnPost replies to a wall post; membership in the post's group is
// required and the text goes through the word filter.
func (s *GroupService) CommentOnPost(userID, postID uint, text string) (*models.GroupPostComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Msg: "comment text is required"}
	}

	var comment models.GroupPostComment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.GroupPost
		if err := tx.First(&post, postID).Error; err != nil {
			return notFound("post", err)
		}

		member, err := s.IsMember(tx, post.GroupID, userID)
		if err != nil {
			return err
		}
		if !member {
			return &StateConflictError{Msg: "not a member of this group"}
		}

		comment = models.GroupPostComment{
			PostID:   postID,
			AuthorID: userID,
			Text:     utils.FilterProfanity(text),
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// CreatePost publishes a wall post; membership is required.
func (s *GroupService) CreatePost(userID, groupID uint, text string) (*models.GroupPost, error) {
	if text == "" {
		return nil, &ValidationError{Msg: "post text is required"}
	}

	var post models.GroupPost
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, groupID).Error; err != nil {
			return notFound("group", err)
		}

		member, err := s.IsMember(tx, groupID, userID)
		if err != nil {
			return err
		}
		if !member {
			return &StateConflictError{Msg: "not a member of this group"}
		}

		post = models.GroupPost{GroupID: groupID, AuthorID: userID, Text: utils.FilterProfanity(text)}
		return tx.Create(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}
