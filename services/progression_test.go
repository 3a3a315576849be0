package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 282, XPForLevel(2))
	assert.Equal(t, 519, XPForLevel(3))
	assert.Equal(t, 3162, XPForLevel(10))
}

func TestGrantXPSingleLevelUp(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)

	level, err := GrantXP(db, user, 150, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Equal(t, 50, user.XP)

	reload(t, db, user)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 50, user.XP)
}

func TestGrantXPMultiLevelJump(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)

	// 1000 XP from level 1 burns 100, 282 and 519 on the way to level 4.
	level, err := GrantXP(db, user, 1000, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, level)
	assert.Equal(t, 99, user.XP)

	// One level-up notification per level gained.
	assert.EqualValues(t, 3, notificationCount(t, db, user.ID))
}

func TestGrantXPNeverLeavesEligibleUnlevelled(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)

	for _, amount := range []int{0, 1, 99, 100, 282, 5000} {
		_, err := GrantXP(db, user, amount, "test", nil)
		require.NoError(t, err)
		assert.Less(t, user.XP, XPForLevel(user.Level))
	}
}

func TestGrantXPWritesOneLedgerEntry(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)

	_, err := GrantXP(db, user, 1000, "big reward", nil)
	require.NoError(t, err)

	entries := ledgerEntries(t, db, user.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, 1000, entries[0].Delta)
	assert.Equal(t, "big reward", entries[0].Reason)
}

func TestGrantXPRejectsNegative(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)

	_, err := GrantXP(db, user, -5, "test", nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, ledgerEntries(t, db, user.ID))
}

func TestGrantCoins(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)

	require.NoError(t, GrantCoins(db, user, 40, "test", nil))
	reload(t, db, user)
	assert.Equal(t, 40, user.Coins)

	entries := ledgerEntries(t, db, user.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, 40, entries[0].Delta)
}

func TestAdjustCoins(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	require.NoError(t, GrantCoins(db, user, 30, "seed", nil))

	require.NoError(t, AdjustCoins(db, user, -10, "correction", nil))
	reload(t, db, user)
	assert.Equal(t, 20, user.Coins)

	var ce *StateConflictError
	require.ErrorAs(t, AdjustCoins(db, user, -100, "overdraw", nil), &ce)

	var ve *ValidationError
	require.ErrorAs(t, AdjustCoins(db, user, 0, "noop", nil), &ve)
	require.ErrorAs(t, AdjustCoins(db, user, 5, "", nil), &ve)
}

func TestUpdateStreak(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)

	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// First ever activity starts at 1.
	streak, err := UpdateStreak(db, user, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	// Next calendar day increments.
	streak, err = UpdateStreak(db, user, day1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	// Same day again is a no-op, even at a later hour.
	streak, err = UpdateStreak(db, user, day1.AddDate(0, 0, 1).Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	// A gap of two or more days resets to 1.
	streak, err = UpdateStreak(db, user, day1.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	reload(t, db, user)
	assert.Equal(t, 1, user.Streak)
	require.NotNil(t, user.LastActivityDate)
}
