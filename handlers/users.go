// handlers/users.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
	"questcraft/services"
)

// GetMe returns the authenticated user's profile.
func GetMe(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userInfo(&user),
		"profile": fiber.Map{
			"display_name": user.DisplayName,
			"avatar":       user.Avatar,
			"bio":          user.Bio,
			"faculty":      user.Faculty,
			"group_name":   user.GroupName,
		},
	})
}

// GetProgression reports level, XP and the distance to the next level.
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	xpNeeded := services.XPForLevel(user.Level)
	progress := float64(user.XP) / float64(xpNeeded) * 100

	return c.JSON(fiber.Map{
		"success":          true,
		"level":            user.Level,
		"xp":               user.XP,
		"xp_to_next_level": xpNeeded,
		"progress_percent": progress,
		"coins":            user.Coins,
		"streak":           user.Streak,
	})
}

// GetStats aggregates the caller's progression, activity counts and rank
// into one payload.
func GetStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var questsCreated, questsCompleted, questsInProgress, achievementsCount int64
	if err := db.Model(&models.Quest{}).Where("created_by_id = ?", userID).Count(&questsCreated).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	err = db.Model(&models.QuestAssignment{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&questsCompleted).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	err = db.Model(&models.QuestAssignment{}).
		Where("user_id = ? AND is_completed = ?", userID, false).
		Count(&questsInProgress).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	err = db.Model(&models.AchievementProgress{}).
		Where("user_id = ? AND achieved = ?", userID, true).
		Count(&achievementsCount).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	rank, err := services.NewLeaderboardService(db).
		RankOf(userID, services.LeaderboardFilter{Period: services.PeriodAll})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute rank"})
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"level":              user.Level,
		"xp":                 user.XP,
		"xp_to_next_level":   services.XPForLevel(user.Level) - user.XP,
		"coins":              user.Coins,
		"streak":             user.Streak,
		"quests_created":     questsCreated,
		"quests_completed":   questsCompleted,
		"quests_in_progress": questsInProgress,
		"achievements_count": achievementsCount,
		"rank":               rank,
	})
}

// SearchUsers finds other users by username substring, capped at 10 rows.
func SearchUsers(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	username := c.Query("username")
	if username == "" {
		return c.Status(400).JSON(fiber.Map{"error": "username parameter is required"})
	}

	db := database.GetDB()
	var users []models.User
	err = db.Where("username LIKE ? AND id <> ?", "%"+username+"%", userID).
		Limit(10).
		Find(&users).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to search users"})
	}

	results := make([]UserInfo, 0, len(users))
	for i := range users {
		results = append(results, userInfo(&users[i]))
	}

	return c.JSON(fiber.Map{"success": true, "users": results})
}

// GetLedger returns the user's balance history, newest first.
func GetLedger(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	db := database.GetDB()
	var entries []models.LedgerEntry
	err = db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch ledger"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
	})
}
