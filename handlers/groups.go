// handlers/groups.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
	"questcraft/services"
)

// GetGroups lists public groups.
func GetGroups(c *fiber.Ctx) error {
	db := database.GetDB()
	var groups []models.Group
	err := db.Preload("Course").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&groups).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch groups"})
	}

	return c.JSON(fiber.Map{"success": true, "groups": groups})
}

// CreateGroup creates a group and enrolls the creator.
func CreateGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CourseID    *uint  `json:"course_id,omitempty"`
		IsPublic    *bool  `json:"is_public,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Group name is required"})
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	db := database.GetDB()
	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		CourseID:    req.CourseID,
		IsPublic:    isPublic,
		CreatedByID: &userID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		member := models.GroupMember{GroupID: group.ID, UserID: userID}
		return tx.Create(&member).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create group"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "group": group})
}

// JoinGroup enrolls the caller in a public group.
func JoinGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	groupID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	svc := services.NewGroupService(database.GetDB())
	if err := svc.Join(userID, uint(groupID)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// LeaveGroup removes the caller from a group.
func LeaveGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	groupID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	svc := services.NewGroupService(database.GetDB())
	if err := svc.Leave(userID, uint(groupID)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetGroupPosts lists a group's wall posts.
func GetGroupPosts(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	db := database.GetDB()
	var posts []models.GroupPost
	err = db.Preload("Author").
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch posts"})
	}

	return c.JSON(fiber.Map{"success": true, "posts": posts})
}

// CreateGroupPost posts on a group wall; membership required.
func CreateGroupPost(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	groupID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewGroupService(database.GetDB())
	post, err := svc.CreatePost(userID, uint(groupID), req.Text)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "post": post})
}

// GetPostComments lists replies to a wall post.
func GetPostComments(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post id"})
	}

	db := database.GetDB()
	var comments []models.GroupPostComment
	err = db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch comments"})
	}

	return c.JSON(fiber.Map{"success": true, "comments": comments})
}

// CommentOnPost replies to a wall post; membership required.
func CommentOnPost(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post id"})
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewGroupService(database.GetDB())
	comment, err := svc.CommentOnPost(userID, uint(postID), req.Text)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "comment": comment})
}

// GetGroupGoals lists a group's goals.
func GetGroupGoals(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	db := database.GetDB()
	var goals []models.GroupGoal
	err = db.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch goals"})
	}

	return c.JSON(fiber.Map{"success": true, "goals": goals})
}

// CreateGroupGoal adds a shared XP target; membership required.
func CreateGroupGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	groupID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		TargetXP    int    `json:"target_xp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.TargetXP <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Title and a positive target are required"})
	}

	db := database.GetDB()
	svc := services.NewGroupService(db)
	member, err := svc.IsMember(db, uint(groupID), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check membership"})
	}
	if !member {
		return c.Status(409).JSON(fiber.Map{"error": "not a member of this group"})
	}

	goal := models.GroupGoal{
		GroupID:     uint(groupID),
		Title:       req.Title,
		Description: req.Description,
		TargetXP:    req.TargetXP,
	}
	if err := db.Create(&goal).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create goal"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "goal": goal})
}

// ContributeToGoal adds XP toward a group goal.
func ContributeToGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	var req struct {
		XP int `json:"xp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewGroupService(database.GetDB())
	goal, err := svc.Contribute(userID, uint(goalID), req.XP)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "goal": goal})
}
