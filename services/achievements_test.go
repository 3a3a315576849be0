package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"questcraft/models"
)

func seedAchievement(t *testing.T, db *gorm.DB, key string, xp, coins int) *models.Achievement {
	t.Helper()

	achievement := &models.Achievement{
		Key:        key,
		Title:      key,
		XPReward:   xp,
		CoinReward: coins,
	}
	require.NoError(t, db.Create(achievement).Error)
	return achievement
}

func TestCheckAchievementsLatchesOnce(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "streak_7", 50, 10)

	user.Streak = 7
	require.NoError(t, db.Model(user).Update("streak", 7).Error)

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "streak_7", granted[0].Key)

	// Redundant evaluation grants nothing and duplicates no reward.
	granted, err = CheckAchievements(db, user)
	require.NoError(t, err)
	assert.Empty(t, granted)

	reload(t, db, user)
	assert.Equal(t, 10, user.Coins)
	assert.Len(t, ledgerEntries(t, db, user.ID), 2) // one XP, one coin entry

	var progress models.AchievementProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&progress).Error)
	assert.True(t, progress.Achieved)
	require.NotNil(t, progress.AchievedAt)
}

func TestEvaluateUser(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "streak_7", 50, 10)
	require.NoError(t, db.Model(user).Update("streak", 7).Error)

	granted, err := EvaluateUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "streak_7", granted[0].Key)

	// The rewards landed on the stored row, not just an in-memory copy.
	reload(t, db, user)
	assert.Equal(t, 50, user.XP)
	assert.Equal(t, 10, user.Coins)

	granted, err = EvaluateUser(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)

	_, err = EvaluateUser(db, user.ID+1000)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCheckAchievementsUnmet(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "streak_7", 50, 10)

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	assert.Empty(t, granted)

	reload(t, db, user)
	assert.Equal(t, 0, user.Coins)
	assert.Equal(t, 1, user.Level)
}

func TestFiveConsecutiveCompletions(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "quests_completed_5", 25, 0)

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		quest := createTestQuest(t, db, nil, nil)
		completed := base.AddDate(0, 0, i)
		assignment := models.QuestAssignment{
			QuestID:     quest.ID,
			UserID:      user.ID,
			IsCompleted: true,
			CompletedAt: &completed,
		}
		require.NoError(t, db.Create(&assignment).Error)
	}

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "quests_completed_5", granted[0].Key)
}

func TestFiveCompletionsWithGapDoNotQualify(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "quests_completed_5", 25, 0)

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	offsets := []int{0, 1, 2, 4, 5} // hole on day 3
	for _, off := range offsets {
		quest := createTestQuest(t, db, nil, nil)
		completed := base.AddDate(0, 0, off)
		assignment := models.QuestAssignment{
			QuestID:     quest.ID,
			UserID:      user.ID,
			IsCompleted: true,
			CompletedAt: &completed,
		}
		require.NoError(t, db.Create(&assignment).Error)
	}

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestQuestsCreatedCriterion(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "quests_created_10", 30, 0)

	for i := 0; i < 9; i++ {
		createTestQuest(t, db, &user.ID, nil)
	}
	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	assert.Empty(t, granted)

	createTestQuest(t, db, &user.ID, nil)
	granted, err = CheckAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "quests_created_10", granted[0].Key)
}

func TestEarlyCompletionCriterion(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "early_completion", 15, 0)

	deadline := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	quest := createTestQuest(t, db, nil, &deadline)
	completed := deadline.AddDate(0, 0, -2)
	assignment := models.QuestAssignment{
		QuestID:     quest.ID,
		UserID:      user.ID,
		IsCompleted: true,
		CompletedAt: &completed,
	}
	require.NoError(t, db.Create(&assignment).Error)

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "early_completion", granted[0].Key)
}

func TestActiveCommenterCriterion(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "active_commenter", 20, 0)

	quest := createTestQuest(t, db, nil, nil)
	for i := 0; i < 10; i++ {
		comment := models.QuestComment{QuestID: quest.ID, UserID: user.ID, Text: "nice"}
		require.NoError(t, db.Create(&comment).Error)
	}

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "active_commenter", granted[0].Key)
}

func TestGroupChallengeParticipantCriterion(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "group_challenge_participant", 20, 0)

	group := createTestGroup(t, db, user.ID)
	goal := models.GroupGoal{
		GroupID:     group.ID,
		Title:       "Team target",
		TargetXP:    100,
		CurrentXP:   100,
		IsCompleted: true,
	}
	require.NoError(t, db.Create(&goal).Error)

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "group_challenge_participant", granted[0].Key)
}

func TestUnknownCriterionIsSkipped(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	seedAchievement(t, db, "not_a_registered_key", 100, 100)

	granted, err := CheckAchievements(db, user)
	require.NoError(t, err)
	assert.Empty(t, granted)
}
