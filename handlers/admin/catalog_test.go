package admin

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"questcraft/database"
	"questcraft/models"
)

func testApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	return fiber.New(), db
}

func putJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()

	req := httptest.NewRequest("PUT", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestUpdateAchievementIgnoresBodyID(t *testing.T) {
	app, db := testApp(t)
	app.Put("/achievements/:id", UpdateAchievement)

	target := models.Achievement{Key: "streak_7", Title: "Streak"}
	other := models.Achievement{Key: "early_completion", Title: "Early bird"}
	require.NoError(t, db.Create(&target).Error)
	require.NoError(t, db.Create(&other).Error)

	// A body carrying someone else's id must not re-target the write.
	body := fmt.Sprintf(`{"id": %d, "title": "Renamed"}`, other.ID)
	status := putJSON(t, app, fmt.Sprintf("/achievements/%d", target.ID), body)
	require.Equal(t, 200, status)

	var reloaded models.Achievement
	require.NoError(t, db.First(&reloaded, target.ID).Error)
	assert.Equal(t, "Renamed", reloaded.Title)
	assert.Equal(t, "streak_7", reloaded.Key)

	var otherReloaded models.Achievement
	require.NoError(t, db.First(&otherReloaded, other.ID).Error)
	assert.Equal(t, "Early bird", otherReloaded.Title)
}

func TestUpdateAchievementRejectsEmptyTitle(t *testing.T) {
	app, db := testApp(t)
	app.Put("/achievements/:id", UpdateAchievement)

	achievement := models.Achievement{Key: "quests_created_10", Title: "Author"}
	require.NoError(t, db.Create(&achievement).Error)

	status := putJSON(t, app, fmt.Sprintf("/achievements/%d", achievement.ID), `{"title": ""}`)
	assert.Equal(t, 400, status)
}

func TestUpdateStoreItemIgnoresBodyID(t *testing.T) {
	app, db := testApp(t)
	app.Put("/store-items/:id", UpdateStoreItem)

	item := models.Item{SKU: "hat-red", Name: "Red hat"}
	require.NoError(t, db.Create(&item).Error)
	target := models.StoreItem{ItemID: item.ID, Price: 10}
	other := models.StoreItem{ItemID: item.ID, Price: 20}
	require.NoError(t, db.Create(&target).Error)
	require.NoError(t, db.Create(&other).Error)

	body := fmt.Sprintf(`{"id": %d, "price": 99}`, other.ID)
	status := putJSON(t, app, fmt.Sprintf("/store-items/%d", target.ID), body)
	require.Equal(t, 200, status)

	var reloaded models.StoreItem
	require.NoError(t, db.First(&reloaded, target.ID).Error)
	assert.Equal(t, 99, reloaded.Price)

	var otherReloaded models.StoreItem
	require.NoError(t, db.First(&otherReloaded, other.ID).Error)
	assert.Equal(t, 20, otherReloaded.Price)
}

func TestUpdateStoreItemRejectsNegativePrice(t *testing.T) {
	app, db := testApp(t)
	app.Put("/store-items/:id", UpdateStoreItem)

	item := models.Item{SKU: "hat-blue", Name: "Blue hat"}
	require.NoError(t, db.Create(&item).Error)
	listing := models.StoreItem{ItemID: item.ID, Price: 10}
	require.NoError(t, db.Create(&listing).Error)

	status := putJSON(t, app, fmt.Sprintf("/store-items/%d", listing.ID), `{"price": -1}`)
	assert.Equal(t, 400, status)
}
