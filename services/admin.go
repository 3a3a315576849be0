// services/admin.go - Manual balance corrections
package services

import (
	"gorm.io/gorm"

	"questcraft/models"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// AdjustUserCoins applies a signed coin correction to a user's balance under
// row lock and returns the updated user. This is the only path that removes
// coins outside of store purchases.
func (s *AdminService) AdjustUserCoins(userID uint, delta int, reason string, meta models.JSONMap) (*models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			return notFound("user", err)
		}
		if err := AdjustCoins(tx, &user, delta, reason, meta); err != nil {
			return err
		}
		return LogActivity(tx, &user.ID, "coins_adjusted",
			models.JSONMap{"delta": delta, "reason": reason})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
