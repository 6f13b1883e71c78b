package service

import (
	"context"
	"time"

	"roadwatch/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type IncidentService interface {
	List(ctx context.Context, req domain.ListIncidentsRequest) ([]*domain.Incident, error)
	Get(ctx context.Context, id int64) (*domain.Incident, error)
	Create(ctx context.Context, req domain.CreateIncidentRequest) (*domain.Incident, error)
	Update(ctx context.Context, id int64, req domain.UpdateIncidentRequest) error
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	ListActive(ctx context.Context, windowHours int) ([]*domain.Incident, error)
	Get(ctx context.Context, id int64) (*domain.Incident, error)
	Update(ctx context.Context, id int64, status *domain.Status, severity *domain.Severity) error
}

// ActiveListCache is the optional read-through cache in front of ListActive.
// A nil/missing cache is a pure miss; mutations must call Invalidate.
type ActiveListCache interface {
	GetActive(ctx context.Context, windowHours int) ([]*domain.Incident, error)
	SetActive(ctx context.Context, windowHours int, incidents []*domain.Incident) error
	Invalidate(ctx context.Context) error
}

type StatsService interface {
	Rollup(ctx context.Context) (*domain.StatsRollup, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Overview(ctx context.Context) (*domain.OverviewStats, error)
}

type StatsRepository interface {
	CountByCategory(ctx context.Context, since *time.Time) (domain.CategoryCount, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Overview(ctx context.Context, dayStart time.Time) (*domain.OverviewStats, error)
}

type Service struct {
	IncidentService IncidentService
	StatsService    StatsService
}

func NewService(
	incidentService IncidentService,
	statsService StatsService,
) *Service {
	return &Service{
		IncidentService: incidentService,
		StatsService:    statsService,
	}
}
