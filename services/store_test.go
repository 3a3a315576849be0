package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"questcraft/models"
)

func seedStoreItem(t *testing.T, db *gorm.DB, itemType string, price int, stock, limit *int) *models.StoreItem {
	t.Helper()

	testSeq++
	item := &models.Item{
		SKU:      fmt.Sprintf("sku-%d", testSeq),
		Name:     "Test item",
		ItemType: itemType,
	}
	require.NoError(t, db.Create(item).Error)

	listing := &models.StoreItem{
		ItemID:        item.ID,
		Price:         price,
		Stock:         stock,
		PurchaseLimit: limit,
		IsActive:      true,
	}
	require.NoError(t, db.Create(listing).Error)
	listing.Item = item
	return listing
}

func intPtr(n int) *int { return &n }

func giveCoins(t *testing.T, db *gorm.DB, user *models.User, amount int) {
	t.Helper()
	require.NoError(t, GrantCoins(db, user, amount, "seed", nil))
}

func TestPurchaseSuccess(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	giveCoins(t, db, user, 100)
	listing := seedStoreItem(t, db, models.ItemTypeConsumable, 10, intPtr(5), nil)

	svc := NewStoreService(db)
	inventory, err := svc.Purchase(user.ID, listing.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, inventory.Quantity)

	reload(t, db, user)
	assert.Equal(t, 80, user.Coins)

	var updated models.StoreItem
	require.NoError(t, db.First(&updated, listing.ID).Error)
	require.NotNil(t, updated.Stock)
	assert.Equal(t, 3, *updated.Stock)

	entries := ledgerEntries(t, db, user.ID)
	require.Len(t, entries, 2) // coin seed + purchase debit
	assert.Equal(t, -20, entries[1].Delta)
}

func TestPurchaseAccumulatesQuantity(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	giveCoins(t, db, user, 100)
	listing := seedStoreItem(t, db, models.ItemTypeConsumable, 5, nil, nil)

	svc := NewStoreService(db)
	_, err := svc.Purchase(user.ID, listing.ID, 2)
	require.NoError(t, err)
	inventory, err := svc.Purchase(user.ID, listing.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, inventory.Quantity)

	var count int64
	db.Model(&models.InventoryItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestPurchaseLimitRejectsOverCap(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	giveCoins(t, db, user, 100)
	listing := seedStoreItem(t, db, models.ItemTypeConsumable, 10, intPtr(5), intPtr(2))

	// Owning 0 and requesting 3 exceeds the cap of 2; nothing changes.
	svc := NewStoreService(db)
	_, err := svc.Purchase(user.ID, listing.ID, 3)
	var ce *StateConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "purchase limit reached", err.Error())

	reload(t, db, user)
	assert.Equal(t, 100, user.Coins)

	var updated models.StoreItem
	require.NoError(t, db.First(&updated, listing.ID).Error)
	assert.Equal(t, 5, *updated.Stock)

	var count int64
	db.Model(&models.InventoryItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPurchaseLimitCountsCurrentHoldings(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	giveCoins(t, db, user, 100)
	listing := seedStoreItem(t, db, models.ItemTypeConsumable, 5, nil, intPtr(2))

	svc := NewStoreService(db)
	_, err := svc.Purchase(user.ID, listing.ID, 2)
	require.NoError(t, err)

	_, err = svc.Purchase(user.ID, listing.ID, 1)
	var ce *StateConflictError
	require.ErrorAs(t, err, &ce)

	// Consuming frees room under the cap again.
	err = db.Model(&models.InventoryItem{}).
		Where("user_id = ? AND item_id = ?", user.ID, listing.ItemID).
		Update("quantity", 1).Error
	require.NoError(t, err)

	_, err = svc.Purchase(user.ID, listing.ID, 1)
	require.NoError(t, err)
}

func TestPurchaseValidationOrder(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	svc := NewStoreService(db)

	// Inactive wins over everything else.
	inactive := seedStoreItem(t, db, models.ItemTypeConsumable, 10, intPtr(0), intPtr(0))
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	_, err := svc.Purchase(user.ID, inactive.ID, 1)
	require.Error(t, err)
	assert.Equal(t, "item unavailable", err.Error())

	// Stock precedes limit and funds.
	outOfStock := seedStoreItem(t, db, models.ItemTypeConsumable, 10, intPtr(0), intPtr(0))
	_, err = svc.Purchase(user.ID, outOfStock.ID, 1)
	require.Error(t, err)
	assert.Equal(t, "insufficient stock", err.Error())

	// Limit precedes funds.
	limited := seedStoreItem(t, db, models.ItemTypeConsumable, 10, nil, intPtr(0))
	_, err = svc.Purchase(user.ID, limited.ID, 1)
	require.Error(t, err)
	assert.Equal(t, "purchase limit reached", err.Error())

	// Broke user, everything else fine.
	affordableNot := seedStoreItem(t, db, models.ItemTypeConsumable, 10, nil, nil)
	_, err = svc.Purchase(user.ID, affordableNot.ID, 1)
	require.Error(t, err)
	assert.Equal(t, "insufficient funds", err.Error())
}

func TestPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	listing := seedStoreItem(t, db, models.ItemTypeConsumable, 10, nil, nil)

	svc := NewStoreService(db)
	_, err := svc.Purchase(user.ID, listing.ID, 0)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestEquipCosmeticOnly(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	giveCoins(t, db, user, 100)
	svc := NewStoreService(db)

	consumable := seedStoreItem(t, db, models.ItemTypeConsumable, 5, nil, nil)
	inv, err := svc.Purchase(user.ID, consumable.ID, 1)
	require.NoError(t, err)

	_, err = svc.Equip(user.ID, inv.ID, "head")
	var ce *StateConflictError
	require.ErrorAs(t, err, &ce)
}

func TestEquipReplacesSlot(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	giveCoins(t, db, user, 100)
	svc := NewStoreService(db)

	first := seedStoreItem(t, db, models.ItemTypeCosmetic, 5, nil, nil)
	second := seedStoreItem(t, db, models.ItemTypeCosmetic, 5, nil, nil)

	invFirst, err := svc.Purchase(user.ID, first.ID, 1)
	require.NoError(t, err)
	invSecond, err := svc.Purchase(user.ID, second.ID, 1)
	require.NoError(t, err)

	_, err = svc.Equip(user.ID, invFirst.ID, "head")
	require.NoError(t, err)
	_, err = svc.Equip(user.ID, invSecond.ID, "head")
	require.NoError(t, err)

	var equipped []models.EquippedItem
	require.NoError(t, db.Where("user_id = ? AND slot = ?", user.ID, "head").Find(&equipped).Error)
	require.Len(t, equipped, 1)
	assert.Equal(t, second.ItemID, equipped[0].ItemID)
}

func TestEquipForeignInventoryHidden(t *testing.T) {
	db := testDB(t)
	owner := createTestUser(t, db)
	other := createTestUser(t, db)
	giveCoins(t, db, owner, 100)
	svc := NewStoreService(db)

	listing := seedStoreItem(t, db, models.ItemTypeCosmetic, 5, nil, nil)
	inv, err := svc.Purchase(owner.ID, listing.ID, 1)
	require.NoError(t, err)

	_, err = svc.Equip(other.ID, inv.ID, "head")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}
