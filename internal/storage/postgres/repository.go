package postgres

import (
	"context"
	"time"

	"roadwatch/internal/domain"
)

type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	ListActive(ctx context.Context, windowHours int) ([]*domain.Incident, error)
	Get(ctx context.Context, id int64) (*domain.Incident, error)
	Update(ctx context.Context, id int64, status *domain.Status, severity *domain.Severity) error
}

type StatsRepository interface {
	// CountByCategory groups incidents created at or after since; a nil since
	// means all time.
	CountByCategory(ctx context.Context, since *time.Time) (domain.CategoryCount, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Overview(ctx context.Context, dayStart time.Time) (*domain.OverviewStats, error)
}

func (p *Postgres) Incidents() IncidentRepository { return p.Incident }
func (p *Postgres) Stats() StatsRepository        { return p.Stat }
