// services/notify.go
package services

import (
	"gorm.io/gorm"

	"questcraft/models"
)

// notify appends a notification row for the user. Delivery is a consumer
// concern; the engine only records the event.
func notify(tx *gorm.DB, userID uint, title, body string, data models.JSONMap) error {
	if data == nil {
		data = models.JSONMap{}
	}
	n := models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	return tx.Create(&n).Error
}

// LogActivity records an audit entry; failures are not fatal to the caller's
// flow and surface as plain errors.
func LogActivity(tx *gorm.DB, userID *uint, verb string, data models.JSONMap) error {
	if data == nil {
		data = models.JSONMap{}
	}
	return tx.Create(&models.ActivityLog{UserID: userID, Verb: verb, Data: data}).Error
}
