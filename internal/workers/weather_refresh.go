package workers

import (
	"context"
	"log/slog"
	"time"

	"roadwatch/internal/domain"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type Refresher interface {
	RefreshAll(ctx context.Context) (map[string]*domain.WeatherSnapshot, map[string]error)
}

// WeatherRefresher triggers a full cache refresh on a schedule so weather
// stays warm between page requests. Serving never depends on it: the read
// path refreshes lazily on its own.
type WeatherRefresher struct {
	cache    Refresher
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewWeatherRefresher(cache Refresher, schedule string, timeout time.Duration, logger *slog.Logger) *WeatherRefresher {
	return &WeatherRefresher{
		cache:    cache,
		cron:     cron.New(),
		schedule: schedule,
		timeout:  timeout,
		logger:   logger,
	}
}

func (w *WeatherRefresher) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.run); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("weather refresh scheduled", slog.String("schedule", w.schedule))

	// Warm the cache right away instead of waiting for the first tick.
	go w.run()
	return nil
}

func (w *WeatherRefresher) run() {
	runID := uuid.New().String()
	log := w.logger.With(slog.String("run_id", runID))

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	snapshots, failed := w.cache.RefreshAll(ctx)

	log.Info("weather refresh finished",
		slog.Int("cities", len(snapshots)),
		slog.Int("failed", len(failed)),
		slog.Duration("latency", time.Since(start)),
	)
	for city, err := range failed {
		log.Warn("city refresh failed", slog.String("city", city), slog.Any("error", err))
	}
}

// Stop waits for an in-flight run before returning.
func (w *WeatherRefresher) Stop() {
	<-w.cron.Stop().Done()
}
