// services/progression.go - XP, Levels and Coins
package services

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"questcraft/models"
)

const baseXP = 100

// XPForLevel returns the XP required to advance from the given level:
// floor(100 * level^1.5). Level 1 needs 100, level 2 needs 282, level 10
// needs 3162.
func XPForLevel(level int) int {
	return int(baseXP * math.Pow(float64(level), 1.5))
}

// GrantXP adds XP to the user, levelling up as many times as the amount
// covers. The requirement is recomputed from the new level on every
// iteration, so a single large grant can jump several levels, and the user
// is never left holding more XP than the current level's threshold. One
// ledger entry records the original amount after the loop settles. Returns
// the user's final level.
func GrantXP(tx *gorm.DB, user *models.User, amount int, reason string, meta models.JSONMap) (int, error) {
	if amount < 0 {
		return user.Level, &ValidationError{Msg: "xp amount cannot be negative"}
	}

	user.XP += amount
	for user.XP >= XPForLevel(user.Level) {
		need := XPForLevel(user.Level)
		if need <= 0 {
			panic(fmt.Sprintf("xp requirement for level %d is %d", user.Level, need))
		}
		user.XP -= need
		user.Level++

		err := notify(tx, user.ID,
			"Level up!",
			fmt.Sprintf("Congratulations! You reached level %d!", user.Level),
			models.JSONMap{"level": user.Level, "type": models.NotifyLevelUp})
		if err != nil {
			return 0, err
		}
	}

	err := tx.Model(user).Updates(map[string]any{
		"xp":    user.XP,
		"level": user.Level,
	}).Error
	if err != nil {
		return 0, err
	}

	if reason == "" {
		reason = "XP grant"
	}
	entry := models.LedgerEntry{
		UserID: user.ID,
		Delta:  amount,
		Reason: reason,
		Meta:   meta,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, err
	}

	return user.Level, nil
}

// GrantCoins credits coins to the user and appends the matching ledger
// entry.
func GrantCoins(tx *gorm.DB, user *models.User, amount int, reason string, meta models.JSONMap) error {
	if amount < 0 {
		return &ValidationError{Msg: "coin amount cannot be negative"}
	}

	user.Coins += amount
	if err := tx.Model(user).Update("coins", user.Coins).Error; err != nil {
		return err
	}

	if reason == "" {
		reason = "Coin grant"
	}
	entry := models.LedgerEntry{
		UserID: user.ID,
		Delta:  amount,
		Reason: reason,
		Meta:   meta,
	}
	return tx.Create(&entry).Error
}

// AdjustCoins applies a signed coin delta with a mandatory reason. Used for
// manual corrections; refuses to push the balance below zero.
func AdjustCoins(tx *gorm.DB, user *models.User, delta int, reason string, meta models.JSONMap) error {
	if delta == 0 {
		return &ValidationError{Msg: "adjustment delta cannot be zero"}
	}
	if reason == "" {
		return &ValidationError{Msg: "adjustment reason is required"}
	}
	if user.Coins+delta < 0 {
		return &StateConflictError{Msg: "adjustment would overdraw coin balance"}
	}

	user.Coins += delta
	if err := tx.Model(user).Update("coins", user.Coins).Error; err != nil {
		return err
	}

	entry := models.LedgerEntry{
		UserID: user.ID,
		Delta:  delta,
		Reason: reason,
		Meta:   meta,
	}
	return tx.Create(&entry).Error
}

// UpdateStreak applies the consecutive-day state machine and returns the new
// streak. Calling it twice on the same day is a no-op.
func UpdateStreak(tx *gorm.DB, user *models.User, now time.Time) (int, error) {
	today := truncateDay(now)

	switch {
	case user.LastActivityDate == nil:
		// First ever activity
		user.Streak = 1
		user.LastActivityDate = &today
	case sameDay(*user.LastActivityDate, today):
		// Already recorded today
		return user.Streak, nil
	case sameDay(user.LastActivityDate.AddDate(0, 0, 1), today):
		// Consecutive day
		user.Streak++
		user.LastActivityDate = &today
	default:
		// Gap of two or more days breaks the streak
		user.Streak = 1
		user.LastActivityDate = &today
	}

	err := tx.Model(user).Updates(map[string]any{
		"streak":             user.Streak,
		"last_activity_date": user.LastActivityDate,
	}).Error
	if err != nil {
		return 0, err
	}
	return user.Streak, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return truncateDay(a).Equal(truncateDay(b))
}
