package public

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"roadwatch/internal/domain"

	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Incidents interface {
	List(ctx context.Context, req domain.ListIncidentsRequest) ([]*domain.Incident, error)
	Get(ctx context.Context, id int64) (*domain.Incident, error)
	Create(ctx context.Context, req domain.CreateIncidentRequest) (*domain.Incident, error)
}

type Stats interface {
	Rollup(ctx context.Context) (*domain.StatsRollup, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Overview(ctx context.Context) (*domain.OverviewStats, error)
}

type Weather interface {
	RefreshAll(ctx context.Context) (map[string]*domain.WeatherSnapshot, map[string]error)
}

type Handler struct {
	logger    *slog.Logger
	Incidents Incidents
	Stats     Stats
	Weather   Weather
}

func NewHandler(logger *slog.Logger, incidents Incidents, stats Stats, weather Weather) *Handler {
	return &Handler{
		logger:    logger,
		Incidents: incidents,
		Stats:     stats,
		Weather:   weather,
	}
}

func (h *Handler) IncidentList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	hours := parseInt(r.URL.Query().Get("hours"), 0)
	if hours < 0 {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hours must be a positive integer"})
		return
	}

	incidents, err := h.Incidents.List(r.Context(), domain.ListIncidentsRequest{Hours: hours})
	if err != nil {
		l.Error("incident list failed", slog.Any("error", err))
		h.handleError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, incidents)
}

func (h *Handler) IncidentGet(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid incident id"})
		return
	}

	incident, err := h.Incidents.Get(r.Context(), id)
	if err != nil {
		l.Debug("incident get failed", slog.Int64("id", id), slog.Any("error", err))
		h.handleError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, incident)
}

func (h *Handler) IncidentCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	incident, err := h.Incidents.Create(r.Context(), req)
	if err != nil {
		l.Warn("incident create rejected", slog.Any("error", err))
		h.handleError(w, err)
		return
	}

	l.Info("incident reported", slog.Int64("id", incident.ID))
	h.writeJSON(w, http.StatusCreated, incident)
}

func (h *Handler) StatsRollup(w http.ResponseWriter, r *http.Request) {
	rollup, err := h.Stats.Rollup(r.Context())
	if err != nil {
		h.log(r).Error("stats rollup failed", slog.Any("error", err))
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rollup)
}

func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Stats.Overview(r.Context())
	if err != nil {
		h.log(r).Error("stats overview failed", slog.Any("error", err))
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) TopUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 10)

	entries, err := h.Stats.Leaderboard(r.Context(), limit)
	if err != nil {
		h.log(r).Error("leaderboard failed", slog.Any("error", err))
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// WeatherAll serves the full city map, refreshing stale entries on the way.
// Cities that fail but have stale data still appear; the response degrades
// to an error only when no data exists at all.
func (h *Handler) WeatherAll(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	snapshots, failed := h.Weather.RefreshAll(r.Context())
	if len(failed) > 0 {
		l.Warn("weather refresh partial failure", slog.Int("failed_cities", len(failed)))
	}

	if len(snapshots) == 0 && len(failed) > 0 {
		for _, err := range failed {
			h.handleError(w, err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, snapshots)
}
