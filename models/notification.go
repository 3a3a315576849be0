// models/notification.go
package models

import "time"

// Notification types carried in the Data payload.
const (
	NotifyLevelUp            = "level_up"
	NotifyAchievement        = "achievement"
	NotifyQuestCompleted     = "quest_completed"
	NotifyNewPublicQuest     = "new_public_quest"
	NotifyItemPurchased      = "item_purchased"
	NotifyQuestLiked         = "quest_liked"
	NotifyGroupGoalCompleted = "group_goal_completed"
)

type Notification struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID uint    `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	Title  string  `gorm:"not null" json:"title"`
	Body   string  `gorm:"type:text" json:"body"`
	Data   JSONMap `gorm:"type:json" json:"data"`
	IsRead bool    `gorm:"default:false;index:idx_notifications_user_read" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// ActivityLog is an audit side channel; rows survive user deletion.
type ActivityLog struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID *uint   `gorm:"index" json:"user_id,omitempty"`
	Verb   string  `gorm:"not null;size:128" json:"verb"`
	Data   JSONMap `gorm:"type:json" json:"data"`

	CreatedAt time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
