// handlers/store.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"questcraft/database"
	"questcraft/middleware"
	"questcraft/models"
	"questcraft/services"
)

// GetStoreItems lists active store listings.
func GetStoreItems(c *fiber.Ctx) error {
	db := database.GetDB()
	var items []models.StoreItem
	err := db.Preload("Item").
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&items).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch store items"})
	}

	return c.JSON(fiber.Map{"success": true, "items": items})
}

// PurchaseItem buys from the store.
func PurchaseItem(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	storeItemID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid store item id"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	svc := services.NewStoreService(database.GetDB())
	inventory, err := svc.Purchase(userID, uint(storeItemID), req.Quantity)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "inventory": inventory})
}

// GetInventory lists the caller's inventory.
func GetInventory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var inventory []models.InventoryItem
	err = db.Preload("Item").
		Where("user_id = ?", userID).
		Find(&inventory).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch inventory"})
	}

	var equipped []models.EquippedItem
	err = db.Preload("Item").
		Where("user_id = ?", userID).
		Find(&equipped).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch equipped items"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"inventory": inventory,
		"equipped":  equipped,
	})
}

// EquipItem equips a cosmetic into a slot.
func EquipItem(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	inventoryItemID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory item id"})
	}

	var req struct {
		Slot string `json:"slot"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewStoreService(database.GetDB())
	equipped, err := svc.Equip(userID, uint(inventoryItemID), req.Slot)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "equipped": equipped})
}

// UnequipItem clears a slot.
func UnequipItem(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	inventoryItemID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory item id"})
	}

	var req struct {
		Slot string `json:"slot"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := services.NewStoreService(database.GetDB())
	if err := svc.Unequip(userID, uint(inventoryItemID), req.Slot); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
