// models/store.go
package models

import "time"

const (
	ItemTypeCosmetic   = "cosmetic"
	ItemTypeConsumable = "consumable"
	ItemTypeBoost      = "boost"
	ItemTypeOther      = "other"
)

type Item struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SKU         string  `gorm:"uniqueIndex;not null;size:64" json:"sku"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	ItemType    string  `gorm:"size:32;default:'cosmetic'" json:"item_type"`
	Properties  JSONMap `gorm:"type:json" json:"properties"`

	CreatedAt time.Time `json:"created_at"`
}

// StoreItem lists an item for sale. Nil Stock means unlimited supply; nil
// PurchaseLimit means no per-user ownership cap.
type StoreItem struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	ItemID        uint  `gorm:"not null;index" json:"item_id"`
	Price         int   `gorm:"not null;index" json:"price"`
	Stock         *int  `json:"stock,omitempty"`
	PurchaseLimit *int  `json:"purchase_limit,omitempty"`
	IsActive      bool  `gorm:"default:true" json:"is_active"`
	Item          *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

// InventoryItem aggregates a user's holdings of one item; quantity grows on
// purchase rather than creating a row per transaction.
type InventoryItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_inventory_user_item" json:"user_id"`
	ItemID    uint    `gorm:"not null;uniqueIndex:idx_inventory_user_item" json:"item_id"`
	Quantity  int     `gorm:"default:1" json:"quantity"`
	Data      JSONMap `gorm:"type:json" json:"data"`

	AcquiredAt time.Time  `gorm:"autoCreateTime" json:"acquired_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

// EquippedItem holds at most one item per (user, slot).
type EquippedItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_equipped_user_slot" json:"user_id"`
	Slot       string    `gorm:"not null;size:64;uniqueIndex:idx_equipped_user_slot" json:"slot"`
	ItemID     uint      `gorm:"not null" json:"item_id"`
	EquippedAt time.Time `gorm:"autoCreateTime" json:"equipped_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

func (StoreItem) TableName() string {
	return "store_items"
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (EquippedItem) TableName() string {
	return "equipped_items"
}
