// models/group.go
package models

import "time"

type Course struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Code        string `gorm:"uniqueIndex;not null;size:32" json:"code"`
	Description string `gorm:"type:text" json:"description"`
}

type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex:idx_group_name_course" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	CourseID    *uint  `gorm:"uniqueIndex:idx_group_name_course" json:"course_id,omitempty"`
	IsPublic    bool   `gorm:"default:true" json:"is_public"`
	CreatedByID *uint  `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`

	Course    *Course       `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedBy *User         `gorm:"foreignKey:CreatedByID" json:"-"`
	Members   []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Goals     []GroupGoal   `gorm:"foreignKey:GroupID" json:"goals,omitempty"`
}

type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// GroupGoal is a shared XP target. IsCompleted latches on the first
// contribution that reaches TargetXP and the completion reward fires once.
type GroupGoal struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	GroupID     uint   `gorm:"not null;index" json:"group_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	TargetXP    int    `gorm:"default:0" json:"target_xp"`
	CurrentXP   int    `gorm:"default:0" json:"current_xp"`
	IsCompleted bool   `gorm:"default:false" json:"is_completed"`

	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

type GroupPost struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	GroupID  uint   `gorm:"not null;index" json:"group_id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Text     string `gorm:"not null;type:text" json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Group  *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

type GroupPostComment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Text     string `gorm:"not null;type:text" json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post   *GroupPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

func (GroupGoal) TableName() string {
	return "group_goals"
}

func (GroupPost) TableName() string {
	return "group_posts"
}

func (GroupPostComment) TableName() string {
	return "group_post_comments"
}
