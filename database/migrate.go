// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"gorm.io/gorm"

	"questcraft/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("Running database migrations...")

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	createIndexes(db)

	log.Println("Migrations completed")
}

// Migrate applies the schema for every model. Exported separately so tests
// can run it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LedgerEntry{},
		&models.Course{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupGoal{},
		&models.GroupPost{},
		&models.GroupPostComment{},
		&models.Quest{},
		&models.QuestAssignment{},
		&models.QuestComment{},
		&models.QuestLike{},
		&models.Achievement{},
		&models.AchievementProgress{},
		&models.Item{},
		&models.StoreItem{},
		&models.InventoryItem{},
		&models.EquippedItem{},
		&models.FriendRequest{},
		&models.Message{},
		&models.Notification{},
		&models.ActivityLog{},
	)
}

// createIndexes creates indexes AutoMigrate does not express.
func createIndexes(db *gorm.DB) {
	log.Println("Creating indexes...")

	// Leaderboard orderings
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_level_xp ON users(level DESC, xp DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)")

	// Windowed XP sums scan positive deltas only
	db.Exec("CREATE INDEX IF NOT EXISTS idx_ledger_created_positive ON ledger_entries(created_at) WHERE delta > 0")

	// Store browsing
	db.Exec("CREATE INDEX IF NOT EXISTS idx_store_items_active ON store_items(is_active)")

	log.Println("Indexes created")
}
