package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"roadwatch/internal/api"
	"roadwatch/internal/auth"
	"roadwatch/internal/config"
	"roadwatch/internal/redis"
	"roadwatch/internal/service"
	"roadwatch/internal/storage/postgres"
	"roadwatch/internal/weather"
	"roadwatch/internal/workers"
	"roadwatch/pkg/logger"

	"github.com/jonboulle/clockwork"
)

type Components struct {
	logger        *slog.Logger
	HttpServer    *api.Server
	Postgres      *postgres.Postgres
	Redis         *redis.Redis
	WeatherWorker *workers.WeatherRefresher
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	incidentCache := redis.NewIncidentCache(redisClient, cfg.Redis.ListTTL)

	loc, err := time.LoadLocation(cfg.Stats.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats timezone: %w", err)
	}

	clock := clockwork.NewRealClock()

	incidentSvc := service.NewIncidentService(storage.Incidents(), incidentCache, logger)
	statsSvc := service.NewStatsService(storage.Stats(), loc, clock)
	srv := service.NewService(incidentSvc, statsSvc)

	// A missing weather key is not fatal: incident serving stays up and the
	// weather endpoint reports its configuration error per request.
	weatherSource := weather.NewSource(cfg.Weather, logger)
	weatherCache := weather.NewCache(
		weatherSource,
		weather.Cities(),
		cfg.Weather.CacheTTL,
		cfg.Weather.MaxConcurrent,
		clock,
		logger,
	)

	verifier := auth.NewHTTPVerifier(cfg.Auth, logger)

	httpServer := api.NewServer(cfg, logger, srv, weatherCache, verifier)
	logger.Info("Initialized server")

	weatherWorker := workers.NewWeatherRefresher(
		weatherCache,
		cfg.Weather.RefreshSchedule,
		cfg.Weather.RequestTimeout*3,
		logger,
	)

	return &Components{
		logger:        logger,
		HttpServer:    httpServer,
		Postgres:      storage,
		Redis:         redisClient,
		WeatherWorker: weatherWorker,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	if c.WeatherWorker != nil {
		c.WeatherWorker.Stop()
	}
	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
