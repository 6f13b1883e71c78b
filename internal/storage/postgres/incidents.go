package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IncidentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIncidentRepo(pool *pgxpool.Pool, logger *slog.Logger) *IncidentRepo {
	return &IncidentRepo{pool: pool, logger: logger}
}

const incidentColumns = `
		i.id,
		i.user_id,
		i.title,
		i.description,
		i.latitude,
		i.longitude,
		i.address,
		i.category,
		i.severity,
		i.status,
		i.photo_urls,
		i.created_at,
		i.updated_at,
		u.full_name,
		u.avatar_url
`

func (p *IncidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	const op = "postgres.Incident.Create"

	const query = `
		INSERT INTO incidents (
			user_id, title, description, latitude, longitude,
			address, category, severity, status, photo_urls
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
		RETURNING id, created_at, updated_at
	`

	if incident.Status == "" {
		incident.Status = domain.StatusActive
	}
	if incident.PhotoURLs == nil {
		incident.PhotoURLs = []string{}
	}

	photoURLs, err := json.Marshal(incident.PhotoURLs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	err = p.pool.QueryRow(ctx, query,
		incident.ReporterID,
		incident.Title,
		incident.Description,
		incident.Lat,
		incident.Lng,
		incident.Address,
		incident.Category,
		incident.Severity,
		incident.Status,
		photoURLs,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		p.logger.Error("db insert failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *IncidentRepo) ListActive(ctx context.Context, windowHours int) ([]*domain.Incident, error) {
	const op = "postgres.Incident.ListActive"

	if windowHours <= 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		SELECT` + incidentColumns + `
		FROM incidents i
		LEFT JOIN users u ON u.id = i.user_id
		WHERE i.status = 'active'
		  AND i.created_at >= now() - ($1 * INTERVAL '1 hour')
		ORDER BY i.created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, windowHours)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	incidents := make([]*domain.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return incidents, nil
}

func (p *IncidentRepo) Get(ctx context.Context, id int64) (*domain.Incident, error) {
	const op = "postgres.Incident.Get"

	const query = `
		SELECT` + incidentColumns + `
		FROM incidents i
		LEFT JOIN users u ON u.id = i.user_id
		WHERE i.id = $1
	`

	row := p.pool.QueryRow(ctx, query, id)
	inc, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return nil, e.WrapError(ctx, op, err)
	}

	return inc, nil
}

// Update changes status and/or severity only. Incidents are never deleted
// and no other field is mutable after creation.
func (p *IncidentRepo) Update(ctx context.Context, id int64, status *domain.Status, severity *domain.Severity) error {
	const op = "postgres.Incident.Update"

	if status == nil && severity == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		UPDATE incidents
		SET status     = COALESCE($2, status),
			severity   = COALESCE($3, severity),
			updated_at = now()
		WHERE id = $1
	`

	cmd, err := p.pool.Exec(ctx, query, id, status, severity)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var (
		inc       domain.Incident
		fullName  *string
		avatarURL *string
	)

	if err := row.Scan(
		&inc.ID,
		&inc.ReporterID,
		&inc.Title,
		&inc.Description,
		&inc.Lat,
		&inc.Lng,
		&inc.Address,
		&inc.Category,
		&inc.Severity,
		&inc.Status,
		&inc.PhotoURLs,
		&inc.CreatedAt,
		&inc.UpdatedAt,
		&fullName,
		&avatarURL,
	); err != nil {
		return nil, err
	}

	if inc.PhotoURLs == nil {
		inc.PhotoURLs = []string{}
	}
	// The reporter reference is weak: a removed user leaves the join empty
	// and the incident is served without reporter info.
	if fullName != nil {
		inc.Reporter = &domain.Reporter{
			FullName:  *fullName,
			AvatarURL: avatarURL,
		}
		if inc.ReporterID != nil {
			inc.Reporter.ID = *inc.ReporterID
		}
	}

	return &inc, nil
}
