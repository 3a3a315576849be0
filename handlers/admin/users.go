// handlers/admin/users.go - Admin user management
package admin

import (
	"questcraft/database"
	"questcraft/models"
	"questcraft/services"

	"github.com/gofiber/fiber/v2"
)

// GetUsers returns all users with pagination
func GetUsers(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search", "")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := db.Model(&models.User{})
	if search != "" {
		query = query.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	query.Count(&total)

	if err := query.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser returns a single user by ID
func GetUser(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

// UpdateUser updates a user's profile and role fields. Progression fields are
// off limits here; balances move only through the ledger.
func UpdateUser(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var updateData struct {
		DisplayName *string `json:"display_name"`
		Faculty     *string `json:"faculty"`
		GroupName   *string `json:"group_name"`
		Role        *string `json:"role"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]any{}
	if updateData.DisplayName != nil {
		updates["display_name"] = *updateData.DisplayName
	}
	if updateData.Faculty != nil {
		updates["faculty"] = *updateData.Faculty
	}
	if updateData.GroupName != nil {
		updates["group_name"] = *updateData.GroupName
	}
	if updateData.Role != nil {
		if *updateData.Role != models.RoleStudent && *updateData.Role != models.RoleAdmin {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid role"})
		}
		updates["role"] = *updateData.Role
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
		}
	}

	return c.JSON(user)
}

// DeleteUser removes a user and their cascaded rows
func DeleteUser(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if err := db.Delete(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// AdjustCoins applies a signed coin correction to a user and records the
// ledger entry.
func AdjustCoins(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Delta  int    `json:"delta"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewAdminService(database.GetDB())
	user, err := svc.AdjustUserCoins(uint(userID), req.Delta, req.Reason,
		models.JSONMap{"adjusted_by": "admin"})
	if err != nil {
		return c.Status(services.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
