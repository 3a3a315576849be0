// models/achievement.go
package models

import "time"

// Achievement is a catalog entry, admin-managed. The Key selects the
// evaluation criterion registered in the services package.
type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Key         string `gorm:"uniqueIndex;not null;size:128" json:"key"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	// Rewards
	XPReward   int `gorm:"default:0" json:"xp_reward"`
	CoinReward int `gorm:"default:0" json:"coin_reward"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AchievementProgress tracks one (achievement, user) pair. Achieved is a
// one-way latch: once set it is never reversed and AchievedAt never changes.
type AchievementProgress struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AchievementID uint       `gorm:"not null;uniqueIndex:idx_achievement_user" json:"achievement_id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_achievement_user" json:"user_id"`
	Achieved      bool       `gorm:"default:false" json:"achieved"`
	AchievedAt    *time.Time `json:"achieved_at,omitempty"`

	// Relationships
	User        *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE" json:"achievement,omitempty"`
}

func (AchievementProgress) TableName() string {
	return "achievement_progress"
}
