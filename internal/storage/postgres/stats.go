package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStatsRepo(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepo {
	return &StatsRepo{pool: pool, logger: logger}
}

func (p *StatsRepo) CountByCategory(ctx context.Context, since *time.Time) (domain.CategoryCount, error) {
	const op = "postgres.Stats.CountByCategory"

	const query = `
		SELECT category, COUNT(*)
		FROM incidents
		WHERE $1::timestamptz IS NULL OR created_at >= $1
		GROUP BY category
	`

	rows, err := p.pool.Query(ctx, query, since)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	counts := make(domain.CategoryCount)
	for rows.Next() {
		var (
			cat domain.Category
			n   int64
		)
		if err := rows.Scan(&cat, &n); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		counts[cat] = n
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return counts, nil
}

func (p *StatsRepo) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	const op = "postgres.Stats.Leaderboard"

	if limit <= 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	// Inner join excludes users with zero incidents; ties break on user id
	// so equal counts keep a stable order.
	const query = `
		SELECT u.id, u.full_name, u.avatar_url, COUNT(i.id) AS incident_count
		FROM users u
		JOIN incidents i ON i.user_id = u.id
		GROUP BY u.id, u.full_name, u.avatar_url
		ORDER BY incident_count DESC, u.id
		LIMIT $1
	`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.FullName, &entry.AvatarURL, &entry.IncidentCount); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return entries, nil
}

func (p *StatsRepo) Overview(ctx context.Context, dayStart time.Time) (*domain.OverviewStats, error) {
	const op = "postgres.Stats.Overview"

	const query = `
		SELECT
			(SELECT COUNT(*) FROM incidents),
			(SELECT COUNT(*) FROM incidents WHERE status = 'active'),
			(SELECT COUNT(*) FROM incidents WHERE created_at >= $1),
			(SELECT COUNT(*) FROM users)
	`

	var stats domain.OverviewStats
	err := p.pool.QueryRow(ctx, query, dayStart).Scan(
		&stats.TotalIncidents,
		&stats.ActiveIncidents,
		&stats.TodayIncidents,
		&stats.TotalUsers,
	)
	if err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return &stats, nil
}
