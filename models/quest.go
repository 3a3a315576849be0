// models/quest.go
package models

import "time"

// Difficulty scale for quests; 1 is trivial, 5 is epic.
const (
	DifficultyMin = 1
	DifficultyMax = 5
)

type Quest struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Goal        string `gorm:"type:text" json:"goal"`
	Difficulty  int    `gorm:"default:3" json:"difficulty"`
	IsDaily     bool   `gorm:"default:false;index:idx_quests_daily_difficulty" json:"is_daily"`
	IsPublic    bool   `gorm:"default:false;index" json:"is_public"`

	CreatedByID *uint      `gorm:"index" json:"created_by"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	ActiveFrom  *time.Time `json:"active_from,omitempty"`
	ActiveTo    *time.Time `json:"active_to,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`

	// Nominal rewards; the actual grant may differ (deadline bonus) and is
	// recorded on the assignment at completion time.
	XPReward   int     `gorm:"default:10" json:"xp_reward"`
	CoinReward int     `gorm:"default:5" json:"coin_reward"`
	Meta       JSONMap `gorm:"type:json" json:"meta"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestAssignment binds a user to a quest instance. IsCompleted is a one-way
// latch; XPReward/CoinReward capture what was actually granted at completion.
type QuestAssignment struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	QuestID uint  `gorm:"not null;uniqueIndex:idx_assignment_quest_user" json:"quest_id"`
	UserID  uint  `gorm:"not null;uniqueIndex:idx_assignment_quest_user;index:idx_assignment_user_completed" json:"user_id"`
	GroupID *uint `gorm:"index" json:"group_id,omitempty"`

	IsCompleted  bool       `gorm:"default:false;index:idx_assignment_user_completed" json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	AttemptCount int        `gorm:"default:0" json:"attempt_count"`
	NeedsReview  bool       `gorm:"default:false" json:"needs_review"`

	XPReward   int `gorm:"default:0" json:"xp_reward"`
	CoinReward int `gorm:"default:0" json:"coin_reward"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Quest *Quest `gorm:"foreignKey:QuestID;constraint:OnDelete:CASCADE" json:"quest,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
}

type QuestComment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	QuestID uint   `gorm:"not null;index" json:"quest_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Text    string `gorm:"not null;type:text" json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Quest *Quest `gorm:"foreignKey:QuestID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// QuestLike marks approval of a completed assignment. Unique per
// (assignment, user); only completed assignments can be liked.
type QuestLike struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_like_assignment_user" json:"assignment_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_like_assignment_user" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`

	Assignment *QuestAssignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
	User       *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (QuestAssignment) TableName() string {
	return "quest_assignments"
}

func (QuestComment) TableName() string {
	return "quest_comments"
}

func (QuestLike) TableName() string {
	return "quest_likes"
}
