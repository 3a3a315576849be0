// handlers/admin/catalog.go - Admin CRUD for reference data
package admin

import (
	"questcraft/database"
	"questcraft/models"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements returns the full achievement catalog
func GetAchievements(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievements []models.Achievement
	if err := db.Find(&achievements).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	return c.JSON(achievements)
}

// CreateAchievement creates a new achievement
func CreateAchievement(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievement models.Achievement
	if err := c.BodyParser(&achievement); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if achievement.Key == "" || achievement.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Key and title are required"})
	}

	if err := db.Create(&achievement).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create achievement"})
	}

	return c.Status(201).JSON(achievement)
}

// UpdateAchievement updates an existing achievement
func UpdateAchievement(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var achievement models.Achievement
	if err := db.First(&achievement, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	var updateData struct {
		Key         *string `json:"key"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		XPReward    *int    `json:"xp_reward"`
		CoinReward  *int    `json:"coin_reward"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]any{}
	if updateData.Key != nil {
		if *updateData.Key == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Key cannot be empty"})
		}
		updates["key"] = *updateData.Key
	}
	if updateData.Title != nil {
		if *updateData.Title == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Title cannot be empty"})
		}
		updates["title"] = *updateData.Title
	}
	if updateData.Description != nil {
		updates["description"] = *updateData.Description
	}
	if updateData.XPReward != nil {
		updates["xp_reward"] = *updateData.XPReward
	}
	if updateData.CoinReward != nil {
		updates["coin_reward"] = *updateData.CoinReward
	}

	if len(updates) > 0 {
		if err := db.Model(&achievement).Updates(updates).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update achievement"})
		}
	}

	return c.JSON(achievement)
}

// DeleteAchievement deletes an achievement
func DeleteAchievement(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	if err := db.Delete(&models.Achievement{}, id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete achievement"})
	}

	return c.JSON(fiber.Map{"message": "Achievement deleted successfully"})
}

// DeleteQuest removes a quest; assignments cascade with it.
func DeleteQuest(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var quest models.Quest
	if err := db.First(&quest, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quest not found"})
	}

	if err := db.Delete(&quest).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete quest"})
	}

	return c.JSON(fiber.Map{"message": "Quest deleted successfully"})
}

// GetItems returns the item catalog
func GetItems(c *fiber.Ctx) error {
	db := database.GetDB()

	var items []models.Item
	if err := db.Find(&items).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch items"})
	}

	return c.JSON(items)
}

// CreateItem creates a new item
func CreateItem(c *fiber.Ctx) error {
	db := database.GetDB()

	var item models.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if item.SKU == "" || item.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "SKU and name are required"})
	}

	if err := db.Create(&item).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create item"})
	}

	return c.Status(201).JSON(item)
}

// UpdateItem updates an existing item
func UpdateItem(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var item models.Item
	if err := db.First(&item, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
	}

	var updateData struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		ItemType    *string         `json:"item_type"`
		Properties  *models.JSONMap `json:"properties"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]any{}
	if updateData.Name != nil {
		if *updateData.Name == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Name cannot be empty"})
		}
		updates["name"] = *updateData.Name
	}
	if updateData.Description != nil {
		updates["description"] = *updateData.Description
	}
	if updateData.ItemType != nil {
		updates["item_type"] = *updateData.ItemType
	}
	if updateData.Properties != nil {
		updates["properties"] = *updateData.Properties
	}

	if len(updates) > 0 {
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update item"})
		}
	}

	return c.JSON(item)
}

// GetStoreItems returns every store listing, active or not
func GetStoreItems(c *fiber.Ctx) error {
	db := database.GetDB()

	var listings []models.StoreItem
	if err := db.Preload("Item").Find(&listings).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch store items"})
	}

	return c.JSON(listings)
}

// CreateStoreItem lists an item in the store
func CreateStoreItem(c *fiber.Ctx) error {
	db := database.GetDB()

	var listing models.StoreItem
	if err := c.BodyParser(&listing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if listing.Price < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Price cannot be negative"})
	}

	var item models.Item
	if err := db.First(&item, listing.ItemID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
	}

	if err := db.Create(&listing).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create store item"})
	}

	return c.Status(201).JSON(listing)
}

// UpdateStoreItem updates price, stock, limit or active flag
func UpdateStoreItem(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var listing models.StoreItem
	if err := db.First(&listing, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Store item not found"})
	}

	var updateData struct {
		Price         *int  `json:"price"`
		Stock         *int  `json:"stock"`
		PurchaseLimit *int  `json:"purchase_limit"`
		IsActive      *bool `json:"is_active"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]any{}
	if updateData.Price != nil {
		if *updateData.Price < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Price cannot be negative"})
		}
		updates["price"] = *updateData.Price
	}
	if updateData.Stock != nil {
		updates["stock"] = *updateData.Stock
	}
	if updateData.PurchaseLimit != nil {
		updates["purchase_limit"] = *updateData.PurchaseLimit
	}
	if updateData.IsActive != nil {
		updates["is_active"] = *updateData.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&listing).Updates(updates).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update store item"})
		}
	}

	return c.JSON(listing)
}

// DeleteStoreItem delists an item. The item and existing inventory rows stay.
func DeleteStoreItem(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	if err := db.Delete(&models.StoreItem{}, id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete store item"})
	}

	return c.JSON(fiber.Map{"message": "Store item deleted successfully"})
}
