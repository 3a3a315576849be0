// handlers/social.go - Friends and direct messages
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
	"questcraft/services"
)

type FriendRequestBody struct {
	UserID uint `json:"user_id"`
}

type FriendResponseBody struct {
	Accept bool `json:"accept"`
}

type MessageBody struct {
	ReceiverID uint   `json:"receiver_id"`
	Text       string `json:"text"`
}

// SendFriendRequest creates a pending friend request to another user.
func SendFriendRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req FriendRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewSocialService(database.GetDB())
	request, err := svc.SendFriendRequest(userID, req.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"request": request,
	})
}

// RespondToFriendRequest accepts or rejects a pending request.
func RespondToFriendRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	requestID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req FriendResponseBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewSocialService(database.GetDB())
	request, err := svc.RespondToFriendRequest(userID, uint(requestID), req.Accept)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"request": request,
	})
}

// GetFriends lists accepted friendships plus pending requests addressed to
// the caller.
func GetFriends(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var accepted []models.FriendRequest
	err = db.Preload("FromUser").Preload("ToUser").
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?",
			userID, userID, models.FriendRequestAccepted).
		Find(&accepted).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch friends"})
	}

	friends := make([]UserInfo, 0, len(accepted))
	for _, r := range accepted {
		other := r.FromUser
		if r.FromUserID == userID {
			other = r.ToUser
		}
		if other != nil {
			friends = append(friends, userInfo(other))
		}
	}

	var pending []models.FriendRequest
	err = db.Preload("FromUser").
		Where("to_user_id = ? AND status = ?", userID, models.FriendRequestPending).
		Find(&pending).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch requests"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"friends": friends,
		"pending": pending,
	})
}

// SendMessage sends a direct message to another user.
func SendMessage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req MessageBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewSocialService(database.GetDB())
	message, err := svc.SendMessage(userID, req.ReceiverID, req.Text)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// GetMessages returns the conversation between the caller and another user,
// oldest first, and marks received messages as read.
func GetMessages(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	otherID, err := c.ParamsInt("userId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	db := database.GetDB()

	var messages []models.Message
	err = db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	err = db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, userID, false).
		Update("is_read", true).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to mark messages read"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}
