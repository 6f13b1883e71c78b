package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"roadwatch/internal/domain"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type IncidentModerator interface {
	Update(ctx context.Context, id int64, req domain.UpdateIncidentRequest) error
	Get(ctx context.Context, id int64) (*domain.Incident, error)
}

type Handler struct {
	logger    *slog.Logger
	Incidents IncidentModerator
}

func NewHandler(logger *slog.Logger, incidents IncidentModerator) *Handler {
	return &Handler{
		logger:    logger,
		Incidents: incidents,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// AdminIncidentUpdate changes an incident's status and/or severity. There is
// no delete: resolved incidents stay in the store for the rollups.
func (h *Handler) AdminIncidentUpdate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid incident id"})
		return
	}

	var req domain.UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.Incidents.Update(r.Context(), id, req); err != nil {
		l.Warn("incident update failed", slog.Int64("id", id), slog.Any("error", err))
		h.handleError(w, err)
		return
	}

	incident, err := h.Incidents.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	l.Info("incident moderated", slog.Int64("id", id), slog.String("status", string(incident.Status)))
	h.writeJSON(w, http.StatusOK, incident)
}
