package service

import (
	"context"
	"fmt"
	"log/slog"

	"roadwatch/internal/auth"
	"roadwatch/internal/domain"
	"roadwatch/pkg/e"
	"roadwatch/pkg/validator"
)

const defaultWindowHours = 6

type incidentService struct {
	repo   IncidentRepository
	cache  ActiveListCache
	logger *slog.Logger
}

func NewIncidentService(repo IncidentRepository, cache ActiveListCache, logger *slog.Logger) IncidentService {
	return &incidentService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *incidentService) List(ctx context.Context, req domain.ListIncidentsRequest) ([]*domain.Incident, error) {
	hours := req.Hours
	if hours <= 0 {
		hours = defaultWindowHours
	}

	if s.cache != nil {
		cached, err := s.cache.GetActive(ctx, hours)
		if err != nil {
			s.logger.Warn("incident cache read failed", slog.Any("error", err))
		} else if cached != nil {
			s.logger.Debug("incident list served from cache", slog.Int("hours", hours), slog.Int("count", len(cached)))
			return cached, nil
		}
	}

	incidents, err := s.repo.ListActive(ctx, hours)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetActive(ctx, hours, incidents); err != nil {
			s.logger.Warn("incident cache write failed", slog.Any("error", err))
		}
	}

	return incidents, nil
}

func (s *incidentService) Get(ctx context.Context, id int64) (*domain.Incident, error) {
	if id <= 0 {
		return nil, fmt.Errorf("incident id %d: %w", id, e.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *incidentService) Create(ctx context.Context, req domain.CreateIncidentRequest) (*domain.Incident, error) {
	reporter, ok := auth.ReporterFrom(ctx)
	if !ok || reporter == nil {
		return nil, fmt.Errorf("reporting requires identity: %w", e.ErrUnauthenticated)
	}

	if err := validator.ValidateStruct(&req); err != nil {
		s.logger.Warn("incident validation failed",
			slog.Int64("reporter_id", reporter.ID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%v: %w", err, e.ErrInvalidInput)
	}

	category := req.Category
	if category == "" {
		category = domain.CategoryTrafficJam
	}
	severity := req.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}

	photoURLs := req.PhotoURLs
	if photoURLs == nil {
		photoURLs = []string{}
	}

	incident := &domain.Incident{
		Title:       req.Title,
		Description: req.Description,
		Lat:         *req.Lat,
		Lng:         *req.Lng,
		Address:     req.Address,
		Category:    category,
		Severity:    severity,
		Status:      domain.StatusActive,
		PhotoURLs:   photoURLs,
		ReporterID:  &reporter.ID,
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	s.logger.Info("incident created",
		slog.Int64("id", incident.ID),
		slog.Int64("reporter_id", reporter.ID),
		slog.String("category", string(incident.Category)),
	)

	incident.Reporter = reporter
	return incident, nil
}

func (s *incidentService) Update(ctx context.Context, id int64, req domain.UpdateIncidentRequest) error {
	if id <= 0 {
		return fmt.Errorf("incident id %d: %w", id, e.ErrInvalidInput)
	}
	if req.Status == nil && req.Severity == nil {
		return fmt.Errorf("nothing to update: %w", e.ErrInvalidInput)
	}
	if err := validator.ValidateStruct(&req); err != nil {
		return fmt.Errorf("%v: %w", err, e.ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, id, req.Status, req.Severity); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *incidentService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("incident cache invalidation failed", slog.Any("error", err))
	}
}
