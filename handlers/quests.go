// handlers/quests.go
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
	"questcraft/services"
)

type CreateQuestRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Goal        string         `json:"goal"`
	Difficulty  int            `json:"difficulty"`
	IsDaily     bool           `json:"is_daily"`
	IsPublic    bool           `json:"is_public"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	XPReward    int            `json:"xp_reward"`
	CoinReward  int            `json:"coin_reward"`
	Meta        models.JSONMap `json:"meta,omitempty"`
}

// GetQuests lists quests visible to the caller: public ones plus their own.
func GetQuests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Preload("CreatedBy")

	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin {
		query = query.Where("is_public = ? OR created_by_id = ?", true, userID)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var quests []models.Quest
	if err := query.Order("created_at DESC").Find(&quests).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch quests"})
	}

	return c.JSON(fiber.Map{"success": true, "quests": quests})
}

// CreateQuest lets any student publish a quest.
func CreateQuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 3
	}
	xp := req.XPReward
	if xp == 0 {
		xp = 10
	}
	coins := req.CoinReward
	if coins == 0 {
		coins = 5
	}

	quest := models.Quest{
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Difficulty:  difficulty,
		IsDaily:     req.IsDaily,
		IsPublic:    req.IsPublic,
		CreatedByID: &userID,
		Deadline:    req.Deadline,
		XPReward:    xp,
		CoinReward:  coins,
		Meta:        req.Meta,
	}

	svc := services.NewQuestService(database.GetDB())
	if err := svc.Create(&quest); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "quest": quest})
}

// AcceptQuest binds the caller to a public quest.
func AcceptQuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	questID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quest id"})
	}

	svc := services.NewQuestService(database.GetDB())
	assignment, err := svc.Accept(userID, uint(questID))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "assignment": assignment})
}

// GetAssignments lists the caller's assignments.
func GetAssignments(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Preload("Quest").Where("user_id = ?", userID)
	if c.Query("completed") == "true" {
		query = query.Where("is_completed = ?", true)
	}

	var assignments []models.QuestAssignment
	if err := query.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch assignments"})
	}

	return c.JSON(fiber.Map{"success": true, "assignments": assignments})
}

// CompleteAssignment settles a quest completion.
func CompleteAssignment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	assignmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	svc := services.NewQuestService(database.GetDB())
	assignment, newAchievements, err := svc.Complete(userID, uint(assignmentID))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"assignment":       assignment,
		"xp_earned":        assignment.XPReward,
		"coins_earned":     assignment.CoinReward,
		"new_achievements": newAchievements,
	})
}

// GetQuestComments lists comments on a quest, newest first.
func GetQuestComments(c *fiber.Ctx) error {
	questID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quest id"})
	}

	db := database.GetDB()
	var comments []models.QuestComment
	err = db.Preload("User").
		Where("quest_id = ?", questID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch comments"})
	}

	return c.JSON(fiber.Map{"success": true, "comments": comments})
}

// CommentOnQuest posts a comment on a quest.
func CommentOnQuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	questID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quest id"})
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewSocialService(database.GetDB())
	comment, newAchievements, err := svc.CommentOnQuest(userID, uint(questID), req.Text)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"comment":          comment,
		"new_achievements": newAchievements,
	})
}

// LikeAssignment likes a completed assignment.
func LikeAssignment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	assignmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	svc := services.NewSocialService(database.GetDB())
	like, err := svc.LikeAssignment(userID, uint(assignmentID))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "like": like})
}

// UnlikeAssignment removes the caller's like.
func UnlikeAssignment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	likeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid like id"})
	}

	svc := services.NewSocialService(database.GetDB())
	if err := svc.Unlike(userID, uint(likeID)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
