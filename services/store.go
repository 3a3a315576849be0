// services/store.go - Store and Inventory
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"questcraft/models"
)

const defaultSlot = "default"

type StoreService struct {
	db *gorm.DB
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// Purchase buys quantity units of a store item. Checks run in a fixed order
// and fail fast: availability, stock, per-user limit, funds. On success the
// coin debit, inventory upsert, stock decrement and ledger entry commit as
// one transaction; any failure leaves everything untouched.
func (s *StoreService) Purchase(userID, storeItemID uint, quantity int) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Msg: "quantity must be positive"}
	}

	var inventory models.InventoryItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			return notFound("user", err)
		}

		var storeItem models.StoreItem
		if err := forUpdate(tx).Preload("Item").First(&storeItem, storeItemID).Error; err != nil {
			return notFound("store item", err)
		}

		if !storeItem.IsActive {
			return &StateConflictError{Msg: "item unavailable"}
		}
		if storeItem.Stock != nil && *storeItem.Stock < quantity {
			return &StateConflictError{Msg: "insufficient stock"}
		}
		if storeItem.PurchaseLimit != nil {
			// The cap applies to quantity currently held, not lifetime
			// purchases: consuming items frees room under the limit again.
			owned, err := s.ownedQuantity(tx, userID, storeItem.ItemID)
			if err != nil {
				return err
			}
			if owned+quantity > *storeItem.PurchaseLimit {
				return &StateConflictError{Msg: "purchase limit reached"}
			}
		}

		totalCost := storeItem.Price * quantity
		if user.Coins < totalCost {
			return &StateConflictError{Msg: "insufficient funds"}
		}

		user.Coins -= totalCost
		if err := tx.Model(&user).Update("coins", user.Coins).Error; err != nil {
			return err
		}

		res := tx.Model(&models.InventoryItem{}).
			Where("user_id = ? AND item_id = ?", userID, storeItem.ItemID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			created := models.InventoryItem{
				UserID:   userID,
				ItemID:   storeItem.ItemID,
				Quantity: quantity,
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
		}
		err := tx.Preload("Item").
			Where("user_id = ? AND item_id = ?", userID, storeItem.ItemID).
			First(&inventory).Error
		if err != nil {
			return err
		}

		if storeItem.Stock != nil {
			newStock := *storeItem.Stock - quantity
			if err := tx.Model(&storeItem).Update("stock", newStock).Error; err != nil {
				return err
			}
		}

		entry := models.LedgerEntry{
			UserID: userID,
			Delta:  -totalCost,
			Reason: fmt.Sprintf("Purchase: %s x%d", storeItem.Item.Name, quantity),
			Meta: models.JSONMap{
				"store_item_id": storeItem.ID,
				"item_id":       storeItem.ItemID,
				"quantity":      quantity,
			},
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return notify(tx, userID,
			"Purchase complete",
			fmt.Sprintf("You bought %s x%d for %d coins", storeItem.Item.Name, quantity, totalCost),
			models.JSONMap{
				"store_item_id": storeItem.ID,
				"item_id":       storeItem.ItemID,
				"type":          models.NotifyItemPurchased,
			})
	})
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

// Equip puts a cosmetic inventory item into a slot, replacing whatever
// occupied the slot before.
func (s *StoreService) Equip(userID, inventoryItemID uint, slot string) (*models.EquippedItem, error) {
	if slot == "" {
		slot = defaultSlot
	}

	var equipped models.EquippedItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.ownedInventoryItem(tx, userID, inventoryItemID)
		if err != nil {
			return err
		}
		if inv.Item.ItemType != models.ItemTypeCosmetic {
			return &StateConflictError{Msg: "only cosmetic items can be equipped"}
		}

		equipped = models.EquippedItem{
			UserID: userID,
			Slot:   slot,
			ItemID: inv.ItemID,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"item_id", "equipped_at"}),
		}).Create(&equipped).Error
	})
	if err != nil {
		return nil, err
	}
	return &equipped, nil
}

// Unequip clears the slot if that inventory item's item occupies it.
func (s *StoreService) Unequip(userID, inventoryItemID uint, slot string) error {
	if slot == "" {
		slot = defaultSlot
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.ownedInventoryItem(tx, userID, inventoryItemID)
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND slot = ? AND item_id = ?", userID, slot, inv.ItemID).
			Delete(&models.EquippedItem{}).Error
	})
}

// ownedInventoryItem loads an inventory row and hides other users' rows
// behind not-found.
func (s *StoreService) ownedInventoryItem(tx *gorm.DB, userID, inventoryItemID uint) (*models.InventoryItem, error) {
	var inv models.InventoryItem
	if err := tx.Preload("Item").First(&inv, inventoryItemID).Error; err != nil {
		return nil, notFound("inventory item", err)
	}
	if inv.UserID != userID {
		return nil, &NotFoundError{Msg: "inventory item not found"}
	}
	if inv.Item == nil {
		return nil, &NotFoundError{Msg: "item not found"}
	}
	return &inv, nil
}

func (s *StoreService) ownedQuantity(tx *gorm.DB, userID, itemID uint) (int, error) {
	var inv models.InventoryItem
	err := tx.Where("user_id = ? AND item_id = ?", userID, itemID).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return inv.Quantity, nil
}
