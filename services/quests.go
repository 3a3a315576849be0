// services/quests.go - Quest Lifecycle
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"questcraft/models"
)

// Completing a quest before its deadline pays 20% extra XP.
const earlyCompletionBonus = 1.2

// How many students get notified about a new public quest.
const publicQuestNotifyCap = 50

type QuestService struct {
	db *gorm.DB
}

func NewQuestService(db *gorm.DB) *QuestService {
	return &QuestService{db: db}
}

// Create stores a quest and, when it is public, fans out notifications to
// other students (capped).
func (s *QuestService) Create(quest *models.Quest) error {
	if quest.Title == "" {
		return &ValidationError{Msg: "quest title is required"}
	}
	if quest.Difficulty < models.DifficultyMin || quest.Difficulty > models.DifficultyMax {
		return &ValidationError{Msg: "difficulty must be between 1 and 5"}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quest).Error; err != nil {
			return err
		}
		if !quest.IsPublic || quest.CreatedByID == nil {
			return nil
		}

		var creator models.User
		if err := tx.First(&creator, *quest.CreatedByID).Error; err != nil {
			return notFound("user", err)
		}

		var students []models.User
		err := tx.Where("role = ? AND id <> ?", models.RoleStudent, creator.ID).
			Limit(publicQuestNotifyCap).
			Find(&students).Error
		if err != nil {
			return err
		}
		for _, student := range students {
			err := notify(tx, student.ID,
				"New public quest!",
				fmt.Sprintf("%s created a new quest: %s", creator.Username, quest.Title),
				models.JSONMap{"quest_id": quest.ID, "type": models.NotifyNewPublicQuest})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Accept creates an assignment binding the user to a public quest. The
// assignment snapshots the quest's nominal rewards.
func (s *QuestService) Accept(userID, questID uint) (*models.QuestAssignment, error) {
	var assignment models.QuestAssignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quest models.Quest
		if err := tx.First(&quest, questID).Error; err != nil {
			return notFound("quest", err)
		}
		if !quest.IsPublic {
			return &StateConflictError{Msg: "quest is not public"}
		}

		var existing models.QuestAssignment
		err := tx.Where("quest_id = ? AND user_id = ?", questID, userID).First(&existing).Error
		if err == nil {
			return &StateConflictError{Msg: "quest already accepted"}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		assignment = models.QuestAssignment{
			QuestID:    questID,
			UserID:     userID,
			XPReward:   quest.XPReward,
			CoinReward: quest.CoinReward,
		}
		if quest.Deadline != nil {
			due := truncateDay(*quest.Deadline)
			assignment.DueDate = &due
		}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Complete marks an assignment done and settles everything that hangs off a
// completion: XP with the early-finish bonus, coins, streak, achievement
// evaluation and the completion notification. The whole flow commits or
// rolls back together, and the completion latch never fires twice.
func (s *QuestService) Complete(userID, assignmentID uint) (*models.QuestAssignment, []models.Achievement, error) {
	var assignment models.QuestAssignment
	var newAchievements []models.Achievement

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Preload("Quest").First(&assignment, assignmentID).Error; err != nil {
			return notFound("assignment", err)
		}
		if assignment.UserID != userID {
			return &NotFoundError{Msg: "assignment not found"}
		}
		if assignment.IsCompleted {
			return &StateConflictError{Msg: "quest already completed"}
		}

		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			return notFound("user", err)
		}

		quest := assignment.Quest
		now := time.Now().UTC()

		xpReward := quest.XPReward
		coinReward := quest.CoinReward
		if quest.Deadline != nil && now.Before(*quest.Deadline) {
			xpReward = int(float64(xpReward) * earlyCompletionBonus)
		}

		assignment.IsCompleted = true
		assignment.CompletedAt = &now
		assignment.XPReward = xpReward
		assignment.CoinReward = coinReward
		assignment.AttemptCount++
		// Guarded latch: a racing completion that slipped past the read
		// above loses here and grants nothing.
		res := tx.Model(&models.QuestAssignment{}).
			Where("id = ? AND is_completed = ?", assignment.ID, false).
			Updates(map[string]any{
				"is_completed":  true,
				"completed_at":  now,
				"xp_reward":     xpReward,
				"coin_reward":   coinReward,
				"attempt_count": assignment.AttemptCount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateConflictError{Msg: "quest already completed"}
		}

		_, err := GrantXP(tx, &user, xpReward,
			"Quest completed: "+quest.Title,
			models.JSONMap{"quest_id": quest.ID})
		if err != nil {
			return err
		}
		if coinReward > 0 {
			err = GrantCoins(tx, &user, coinReward,
				"Quest completed: "+quest.Title,
				models.JSONMap{"quest_id": quest.ID})
			if err != nil {
				return err
			}
		}

		if _, err := UpdateStreak(tx, &user, now); err != nil {
			return err
		}

		newAchievements, err = CheckAchievements(tx, &user)
		if err != nil {
			return err
		}

		return notify(tx, user.ID,
			"Quest completed!",
			fmt.Sprintf("You completed the quest: %s. Earned %d XP and %d coins.", quest.Title, xpReward, coinReward),
			models.JSONMap{
				"quest_id":    quest.ID,
				"quest_title": quest.Title,
				"type":        models.NotifyQuestCompleted,
			})
	})
	if err != nil {
		return nil, nil, err
	}
	return &assignment, newAchievements, nil
}
