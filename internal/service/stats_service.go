package service

import (
	"context"
	"time"

	"roadwatch/internal/domain"

	"github.com/jonboulle/clockwork"
)

const defaultLeaderboardLimit = 10

type statsService struct {
	repo  StatsRepository
	loc   *time.Location
	clock clockwork.Clock
}

// NewStatsService computes rollups against calendar boundaries in loc; the
// same convention applies to every period so "today" never disagrees with
// "this month".
func NewStatsService(repo StatsRepository, loc *time.Location, clock clockwork.Clock) StatsService {
	return &statsService{
		repo:  repo,
		loc:   loc,
		clock: clock,
	}
}

func (s *statsService) periodStarts() (day, month, year time.Time) {
	now := s.clock.Now().In(s.loc)
	day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	year = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.loc)
	return day, month, year
}

func (s *statsService) Rollup(ctx context.Context) (*domain.StatsRollup, error) {
	dayStart, monthStart, yearStart := s.periodStarts()

	day, err := s.repo.CountByCategory(ctx, &dayStart)
	if err != nil {
		return nil, err
	}
	month, err := s.repo.CountByCategory(ctx, &monthStart)
	if err != nil {
		return nil, err
	}
	year, err := s.repo.CountByCategory(ctx, &yearStart)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByCategory(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &domain.StatsRollup{
		Day:   day,
		Month: month,
		Year:  year,
		Total: total,
	}, nil
}

func (s *statsService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	return s.repo.Leaderboard(ctx, limit)
}

func (s *statsService) Overview(ctx context.Context) (*domain.OverviewStats, error) {
	dayStart, _, _ := s.periodStarts()
	return s.repo.Overview(ctx, dayStart)
}
