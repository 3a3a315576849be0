package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"questcraft/database"
	"questcraft/models"
)

// testDB opens a private in-memory database with the full schema applied.
// The pool is pinned to one connection so every query sees the same memory
// database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

var testSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	testSeq++
	user := &models.User{
		Username: fmt.Sprintf("student%d", testSeq),
		Password: "hashed",
		Role:     models.RoleStudent,
		Level:    1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestQuest(t *testing.T, db *gorm.DB, createdBy *uint, deadline *time.Time) *models.Quest {
	t.Helper()

	quest := &models.Quest{
		Title:       "Read chapter",
		Difficulty:  3,
		IsPublic:    true,
		CreatedByID: createdBy,
		Deadline:    deadline,
		XPReward:    10,
		CoinReward:  5,
	}
	require.NoError(t, db.Create(quest).Error)
	return quest
}

func createTestGroup(t *testing.T, db *gorm.DB, memberIDs ...uint) *models.Group {
	t.Helper()

	testSeq++
	group := &models.Group{Name: fmt.Sprintf("group%d", testSeq), IsPublic: true}
	require.NoError(t, db.Create(group).Error)
	for _, id := range memberIDs {
		require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, UserID: id}).Error)
	}
	return group
}

func ledgerEntries(t *testing.T, db *gorm.DB, userID uint) []models.LedgerEntry {
	t.Helper()

	var entries []models.LedgerEntry
	require.NoError(t, db.Where("user_id = ?", userID).Order("id ASC").Find(&entries).Error)
	return entries
}

func notificationCount(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func reload(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()
	require.NoError(t, db.First(user, user.ID).Error)
}
