// models/user.go
package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `gorm:"not null" json:"-"`
	Role     string  `gorm:"size:16;default:'student'" json:"role"`
	IsGuest  bool    `gorm:"default:false" json:"is_guest"`

	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio"`
	Faculty     string `gorm:"index" json:"faculty"`
	GroupName   string `gorm:"index" json:"group_name"`

	// Progression. Invariant: XP stays below the requirement for the
	// current level; GrantXP levels the user up until that holds.
	Level            int        `gorm:"default:1" json:"level"`
	XP               int        `gorm:"default:0" json:"xp"`
	Coins            int        `gorm:"default:0" json:"coins"`
	Streak           int        `gorm:"default:0" json:"streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Achievements []AchievementProgress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"achievements,omitempty"`
	Assignments  []QuestAssignment     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	Inventory    []InventoryItem       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"inventory,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LedgerEntry is an append-only record of a single balance change (XP or
// coins). Entries are written exactly once per balance-affecting operation
// and are never updated or deleted.
type LedgerEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_ledger_user_created" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Delta     int       `gorm:"not null" json:"delta"`
	Reason    string    `gorm:"size:255" json:"reason"`
	Meta      JSONMap   `gorm:"type:json" json:"meta"`
	CreatedAt time.Time `gorm:"index:idx_ledger_user_created" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
