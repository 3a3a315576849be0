// models/social.go
package models

import "time"

const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

type FriendRequest struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FromUserID uint   `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"from_user_id"`
	ToUserID   uint   `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"to_user_id"`
	Status     string `gorm:"size:16;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`

	FromUser *User `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"from_user,omitempty"`
	ToUser   *User `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE" json:"to_user,omitempty"`
}

type Message struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint   `gorm:"not null;index" json:"receiver_id"`
	Text       string `gorm:"not null;type:text" json:"text"`
	IsRead     bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`

	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
}
