// services/leaderboard.go - Ranking
package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"questcraft/models"
)

const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const (
	SortByLevel  = "level"
	SortByXP     = "xp"
	SortByQuests = "quests"
	SortByStreak = "streak"
)

const leaderboardLimit = 100

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// LeaderboardFilter selects the ranked population and the scoring period.
// SortBy overrides the period's natural ordering; empty keeps it.
type LeaderboardFilter struct {
	Period  string // all, week, month
	Faculty string
	Group   string
	SortBy  string // level, xp, quests, streak
}

// Rank returns the top 100 students for the filter. For the "all" period the
// order is (level desc, xp desc). For "week"/"month" the order is the sum of
// positive ledger deltas within the trailing window; users with no window
// activity score 0. Level and XP are deliberately not tie-breakers in the
// windowed modes: those boards measure earning velocity, not accumulated
// state.
func (s *LeaderboardService) Rank(filter LeaderboardFilter) ([]models.User, error) {
	users, err := s.ordered(filter)
	if err != nil {
		return nil, err
	}
	if len(users) > leaderboardLimit {
		users = users[:leaderboardLimit]
	}
	return users, nil
}

// RankOf returns the user's 1-based position under the exact ordering Rank
// uses, or 0 when the filter excludes the user.
func (s *LeaderboardService) RankOf(userID uint, filter LeaderboardFilter) (int, error) {
	users, err := s.ordered(filter)
	if err != nil {
		return 0, err
	}
	for idx, u := range users {
		if u.ID == userID {
			return idx + 1, nil
		}
	}
	return 0, nil
}

// ordered produces the full ranked population; Rank truncates, RankOf
// searches. Both go through here so the two can never drift apart.
func (s *LeaderboardService) ordered(filter LeaderboardFilter) ([]models.User, error) {
	users, err := s.populationByPeriod(filter)
	if err != nil {
		return nil, err
	}
	return s.applySort(users, filter.SortBy)
}

// applySort re-orders the population when an explicit sort key is given.
func (s *LeaderboardService) applySort(users []models.User, sortBy string) ([]models.User, error) {
	switch sortBy {
	case "":
		return users, nil
	case SortByLevel:
		sort.SliceStable(users, func(i, j int) bool {
			if users[i].Level != users[j].Level {
				return users[i].Level > users[j].Level
			}
			return users[i].XP > users[j].XP
		})
	case SortByXP:
		sort.SliceStable(users, func(i, j int) bool {
			return users[i].XP > users[j].XP
		})
	case SortByStreak:
		sort.SliceStable(users, func(i, j int) bool {
			return users[i].Streak > users[j].Streak
		})
	case SortByQuests:
		counts, err := s.completedQuestCounts()
		if err != nil {
			return nil, err
		}
		sort.SliceStable(users, func(i, j int) bool {
			return counts[users[i].ID] > counts[users[j].ID]
		})
	default:
		return nil, &ValidationError{Msg: "invalid sort key"}
	}
	return users, nil
}

func (s *LeaderboardService) populationByPeriod(filter LeaderboardFilter) ([]models.User, error) {
	query := s.db.Where("role = ?", models.RoleStudent)
	if filter.Faculty != "" {
		query = query.Where("faculty = ?", filter.Faculty)
	}
	if filter.Group != "" {
		query = query.Where("group_name = ?", filter.Group)
	}

	var window time.Duration
	switch filter.Period {
	case PeriodWeek:
		window = 7 * 24 * time.Hour
	case PeriodMonth:
		window = 30 * 24 * time.Hour
	default:
		var users []models.User
		err := query.Order("level DESC, xp DESC").Find(&users).Error
		return users, err
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	sums, err := s.windowedXP(time.Now().UTC().Add(-window))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		return sums[users[i].ID] > sums[users[j].ID]
	})
	return users, nil
}

// completedQuestCounts tallies finished assignments per user.
func (s *LeaderboardService) completedQuestCounts() (map[uint]int, error) {
	type row struct {
		UserID uint
		Total  int
	}
	var rows []row
	err := s.db.Model(&models.QuestAssignment{}).
		Select("user_id, COUNT(*) AS total").
		Where("is_completed = ?", true).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Total
	}
	return counts, nil
}

// windowedXP aggregates positive ledger deltas per user since the cutoff.
func (s *LeaderboardService) windowedXP(since time.Time) (map[uint]int, error) {
	type row struct {
		UserID uint
		Total  int
	}
	var rows []row
	err := s.db.Model(&models.LedgerEntry{}).
		Select("user_id, SUM(delta) AS total").
		Where("created_at >= ? AND delta > 0", since).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[uint]int, len(rows))
	for _, r := range rows {
		sums[r.UserID] = r.Total
	}
	return sums, nil
}
