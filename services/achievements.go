// services/achievements.go - Achievement Evaluation
package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"questcraft/models"
)

// Criterion reports whether a user currently satisfies one achievement.
type Criterion func(tx *gorm.DB, user *models.User) (bool, error)

// criteria maps achievement keys to their checks. A new achievement kind is
// a new entry here, not a new branch in the evaluator.
var criteria = map[string]Criterion{
	"quests_completed_5":          fiveConsecutiveCompletions,
	"streak_7":                    streakAtLeast(7),
	"quests_created_10":           questsCreatedAtLeast(10),
	"early_completion":            hasEarlyCompletion,
	"active_commenter":            commentsAtLeast(10),
	"group_challenge_participant": inGroupWithCompletedGoal,
}

// EvaluateUser runs the evaluator for a user in its own transaction. The
// user row is loaded locked because granted achievements write back XP and
// coins.
func EvaluateUser(db *gorm.DB, userID uint) ([]models.Achievement, error) {
	var newAchievements []models.Achievement
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			return notFound("user", err)
		}
		var err error
		newAchievements, err = CheckAchievements(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newAchievements, nil
}

// CheckAchievements evaluates the full catalog against the user and grants
// whatever newly qualifies. Already-achieved entries are skipped, so calling
// it redundantly never duplicates a reward. Returns the achievements granted
// by this call.
func CheckAchievements(tx *gorm.DB, user *models.User) ([]models.Achievement, error) {
	var catalog []models.Achievement
	if err := tx.Find(&catalog).Error; err != nil {
		return nil, err
	}

	newAchievements := []models.Achievement{}
	for _, achievement := range catalog {
		var progress models.AchievementProgress
		err := tx.Where(models.AchievementProgress{
			AchievementID: achievement.ID,
			UserID:        user.ID,
		}).FirstOrCreate(&progress).Error
		if err != nil {
			return nil, err
		}
		if progress.Achieved {
			continue
		}

		check, ok := criteria[achievement.Key]
		if !ok {
			continue
		}
		satisfied, err := check(tx, user)
		if err != nil {
			return nil, err
		}
		if !satisfied {
			continue
		}

		// Latch exactly once; a racing evaluation loses on the guarded
		// update and grants nothing.
		now := time.Now().UTC()
		res := tx.Model(&models.AchievementProgress{}).
			Where("id = ? AND achieved = ?", progress.ID, false).
			Updates(map[string]any{"achieved": true, "achieved_at": now})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}

		if achievement.XPReward > 0 {
			_, err := GrantXP(tx, user, achievement.XPReward,
				"Achievement: "+achievement.Title,
				models.JSONMap{"achievement_id": achievement.ID})
			if err != nil {
				return nil, err
			}
		}
		if achievement.CoinReward > 0 {
			err := GrantCoins(tx, user, achievement.CoinReward,
				"Achievement: "+achievement.Title,
				models.JSONMap{"achievement_id": achievement.ID})
			if err != nil {
				return nil, err
			}
		}

		err = notify(tx, user.ID,
			"New achievement!",
			fmt.Sprintf("You earned the achievement: %s", achievement.Title),
			models.JSONMap{
				"achievement_id":    achievement.ID,
				"achievement_title": achievement.Title,
				"type":              models.NotifyAchievement,
			})
		if err != nil {
			return nil, err
		}

		newAchievements = append(newAchievements, achievement)
	}

	return newAchievements, nil
}

// fiveConsecutiveCompletions checks that the 5 most recent completions, by
// completion date, land on 5 consecutive calendar days.
func fiveConsecutiveCompletions(tx *gorm.DB, user *models.User) (bool, error) {
	var recent []models.QuestAssignment
	err := tx.Where("user_id = ? AND is_completed = ?", user.ID, true).
		Order("completed_at DESC").
		Limit(5).
		Find(&recent).Error
	if err != nil {
		return false, err
	}
	if len(recent) < 5 {
		return false, nil
	}

	days := make([]time.Time, 0, len(recent))
	for _, qa := range recent {
		if qa.CompletedAt == nil {
			return false, nil
		}
		days = append(days, truncateDay(*qa.CompletedAt))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	for i := 0; i < len(days)-1; i++ {
		if !days[i].Equal(days[i+1].AddDate(0, 0, 1)) {
			return false, nil
		}
	}
	return true, nil
}

func streakAtLeast(n int) Criterion {
	return func(tx *gorm.DB, user *models.User) (bool, error) {
		return user.Streak >= n, nil
	}
}

func questsCreatedAtLeast(n int) Criterion {
	return func(tx *gorm.DB, user *models.User) (bool, error) {
		var count int64
		err := tx.Model(&models.Quest{}).
			Where("created_by_id = ?", user.ID).
			Count(&count).Error
		return count >= int64(n), err
	}
}

// hasEarlyCompletion looks for any completed assignment whose completion
// timestamp precedes its quest's deadline.
func hasEarlyCompletion(tx *gorm.DB, user *models.User) (bool, error) {
	var count int64
	err := tx.Model(&models.QuestAssignment{}).
		Joins("JOIN quests ON quests.id = quest_assignments.quest_id").
		Where("quest_assignments.user_id = ? AND quest_assignments.is_completed = ?", user.ID, true).
		Where("quests.deadline IS NOT NULL AND quest_assignments.completed_at < quests.deadline").
		Count(&count).Error
	return count > 0, err
}

func commentsAtLeast(n int) Criterion {
	return func(tx *gorm.DB, user *models.User) (bool, error) {
		var count int64
		err := tx.Model(&models.QuestComment{}).
			Where("user_id = ?", user.ID).
			Count(&count).Error
		return count >= int64(n), err
	}
}

func inGroupWithCompletedGoal(tx *gorm.DB, user *models.User) (bool, error) {
	var count int64
	err := tx.Model(&models.GroupGoal{}).
		Joins("JOIN group_members ON group_members.group_id = group_goals.group_id").
		Where("group_members.user_id = ? AND group_goals.is_completed = ?", user.ID, true).
		Count(&count).Error
	return count > 0, err
}
