// handlers/achievements.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
	"questcraft/services"
)

// GetAchievements returns the catalog annotated with the caller's progress.
func GetAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var catalog []models.Achievement
	if err := db.Find(&catalog).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	var progress []models.AchievementProgress
	err = db.Where("user_id = ? AND achieved = ?", userID, true).Find(&progress).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progress"})
	}

	achievedMap := make(map[uint]models.AchievementProgress, len(progress))
	for _, p := range progress {
		achievedMap[p.AchievementID] = p
	}

	achievements := make([]fiber.Map, 0, len(catalog))
	for _, achievement := range catalog {
		entry := fiber.Map{
			"id":          achievement.ID,
			"key":         achievement.Key,
			"title":       achievement.Title,
			"description": achievement.Description,
			"xp_reward":   achievement.XPReward,
			"coin_reward": achievement.CoinReward,
			"achieved":    false,
		}
		if p, ok := achievedMap[achievement.ID]; ok {
			entry["achieved"] = true
			entry["achieved_at"] = p.AchievedAt
		}
		achievements = append(achievements, entry)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievements,
		"total":        len(catalog),
		"achieved":     len(progress),
	})
}

// EvaluateAchievements re-runs the evaluator for the caller; safe to call
// redundantly.
func EvaluateAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	newAchievements, err := services.EvaluateUser(database.GetDB(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"new_achievements": newAchievements,
	})
}
