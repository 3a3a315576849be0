// handlers/notifications.go - Notification feed and live stream
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
)

// streamPollInterval controls how often the websocket stream checks for new
// notifications.
const streamPollInterval = 3 * time.Second

// GetNotifications returns the caller's notifications, newest first.
func GetNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	db := database.GetDB()
	var notifications []models.Notification
	err = db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	var unread int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead marks one notification as read.
func MarkNotificationRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	db := database.GetDB()
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// MarkAllNotificationsRead marks every unread notification as read.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	err = db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update notifications"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// NotificationStreamUpgrade gates the websocket upgrade and stashes the
// authenticated user ID for the stream handler.
func NotificationStreamUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	c.Locals("streamUserId", userID)
	return c.Next()
}

// StreamNotifications pushes notifications over a websocket. On connect it
// sends the current unread backlog, then polls for anything newer until the
// client disconnects.
var StreamNotifications = websocket.New(func(conn *websocket.Conn) {
	userID, ok := conn.Locals("streamUserId").(uint)
	if !ok {
		conn.Close()
		return
	}

	db := database.GetDB()

	var backlog []models.Notification
	db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at ASC").
		Find(&backlog)

	var lastID uint
	for _, n := range backlog {
		if err := conn.WriteJSON(n); err != nil {
			return
		}
		lastID = n.ID
	}
	if lastID == 0 {
		// No backlog; start streaming from the newest existing row.
		var latest models.Notification
		if err := db.Where("user_id = ?", userID).Order("id DESC").First(&latest).Error; err == nil {
			lastID = latest.ID
		}
	}

	// Reads are only used to detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			var fresh []models.Notification
			err := db.Where("user_id = ? AND id > ?", userID, lastID).
				Order("id ASC").
				Find(&fresh).Error
			if err != nil {
				continue
			}
			for _, n := range fresh {
				if err := conn.WriteJSON(n); err != nil {
					return
				}
				lastID = n.ID
			}
		}
	}
})
