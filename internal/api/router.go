package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"roadwatch/internal/api/handlers/http/admin"
	"roadwatch/internal/api/handlers/http/public"
	"roadwatch/internal/api/handlers/http/system"
	"roadwatch/internal/auth"
	"roadwatch/internal/config"
	"roadwatch/internal/middleware"
	"roadwatch/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, weather public.Weather, verifier auth.Verifier) *Server {
	publicHandler := public.NewHandler(logger, svc.IncidentService, svc.StatsService, weather)
	adminHandler := admin.NewHandler(logger, svc.IncidentService)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, publicHandler, adminHandler, systemHandler, verifier, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(cfg *config.Config, publicHandler *public.Handler, adminHandler *admin.Handler, systemHandler *system.Handler, verifier auth.Verifier, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/incidents", func(ir chi.Router) {
			ir.Get("/", publicHandler.IncidentList)
			ir.Get("/{id}", publicHandler.IncidentGet)

			ir.Group(func(wr chi.Router) {
				wr.Use(middleware.Authenticate(verifier, logger))
				wr.Use(middleware.Limit(5, 10, 5*time.Minute, logger))
				wr.Post("/", publicHandler.IncidentCreate)
			})
		})

		api.Get("/stats", publicHandler.StatsRollup)
		api.Get("/stats/overview", publicHandler.StatsOverview)
		api.Get("/top-users", publicHandler.TopUsers)
		api.Get("/weather", publicHandler.WeatherAll)

		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.APIKeyMiddleware(cfg.AdminAPIKey))
			ar.Use(middleware.Limit(2, 5, 10*time.Minute, logger))

			ar.Patch("/incidents/{id}", adminHandler.AdminIncidentUpdate)
		})

		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
