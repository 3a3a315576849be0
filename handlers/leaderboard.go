// handlers/leaderboard.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
	"questcraft/services"
)

// GetLeaderboard returns the ranked top 100 for a period, optionally
// filtered by faculty and group.
// GET /api/leaderboard?period=all|week|month&faculty=...&group=...&sort_by=level|xp|quests|streak
func GetLeaderboard(c *fiber.Ctx) error {
	filter := services.LeaderboardFilter{
		Period:  c.Query("period", services.PeriodAll),
		Faculty: c.Query("faculty"),
		Group:   c.Query("group"),
		SortBy:  c.Query("sort_by"),
	}

	svc := services.NewLeaderboardService(database.GetDB())
	users, err := svc.Rank(filter)
	if err != nil {
		return fail(c, err)
	}

	entries := make([]fiber.Map, 0, len(users))
	for idx, user := range users {
		entries = append(entries, fiber.Map{
			"rank":   idx + 1,
			"user":   userInfo(&user),
			"level":  user.Level,
			"xp":     user.XP,
			"streak": user.Streak,
		})
	}

	response := fiber.Map{
		"success": true,
		"period":  filter.Period,
		"entries": entries,
	}

	// Echo the caller's own rank even when they fall outside the top 100.
	if userID, err := middleware.GetUserID(c); err == nil {
		rank, err := svc.RankOf(userID, filter)
		if err == nil && rank > 0 {
			response["my_rank"] = rank
		}
	}

	return c.JSON(response)
}

// GetUserRank returns one user's position for a period.
// GET /api/leaderboard/user/:id?period=...
func GetUserRank(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, targetID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	filter := services.LeaderboardFilter{
		Period:  c.Query("period", services.PeriodAll),
		Faculty: c.Query("faculty"),
		Group:   c.Query("group"),
		SortBy:  c.Query("sort_by"),
	}

	svc := services.NewLeaderboardService(db)
	rank, err := svc.RankOf(user.ID, filter)
	if err != nil {
		return fail(c, err)
	}
	if rank == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "User is not ranked for this filter"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"user_id":  user.ID,
		"username": user.Username,
		"period":   filter.Period,
		"rank":     rank,
	})
}
