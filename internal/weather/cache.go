package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock.go
type Fetcher interface {
	Fetch(ctx context.Context, city domain.City) (*domain.WeatherSnapshot, error)
}

type entry struct {
	snapshot  *domain.WeatherSnapshot
	fetchedAt time.Time
}

// Cache is the server-side TTL store of weather snapshots, one slot per
// configured city. Staleness is checked at read time only; there is no
// background eviction. A slot is replaced atomically on a successful fetch
// and left untouched when a fetch fails, so stale data stays servable.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	cities []domain.City
	byName map[string]domain.City
	ttl    time.Duration
	fanout int
	source Fetcher
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewCache(source Fetcher, cities []domain.City, ttl time.Duration, fanout int, clock clockwork.Clock, logger *slog.Logger) *Cache {
	if fanout <= 0 {
		fanout = 6
	}
	byName := make(map[string]domain.City, len(cities))
	for _, c := range cities {
		byName[c.Name] = c
	}
	return &Cache{
		entries: make(map[string]entry, len(cities)),
		cities:  cities,
		byName:  byName,
		ttl:     ttl,
		fanout:  fanout,
		source:  source,
		clock:   clock,
		logger:  logger,
	}
}

func (c *Cache) Cities() []domain.City {
	return c.cities
}

func (c *Cache) lookup(cityName string) (snapshot *domain.WeatherSnapshot, fresh, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ent, ok := c.entries[cityName]
	if !ok {
		return nil, false, false
	}
	return ent.snapshot, c.clock.Since(ent.fetchedAt) < c.ttl, true
}

func (c *Cache) store(cityName string, snapshot *domain.WeatherSnapshot) {
	c.mu.Lock()
	c.entries[cityName] = entry{snapshot: snapshot, fetchedAt: c.clock.Now()}
	c.mu.Unlock()
}

// Get serves a fresh entry without touching the provider. On a stale or
// missing entry it fetches; a failed fetch falls back to the stale snapshot
// when one exists and only errors when the city has no data of any age.
func (c *Cache) Get(ctx context.Context, cityName string) (*domain.WeatherSnapshot, error) {
	const op = "weather.Cache.Get"

	city, known := c.byName[cityName]
	if !known {
		return nil, fmt.Errorf("%s: city %q: %w", op, cityName, e.ErrNotFound)
	}

	snapshot, fresh, ok := c.lookup(cityName)
	if ok && fresh {
		return snapshot, nil
	}

	fetched, err := c.source.Fetch(ctx, city)
	if err != nil {
		if ok {
			c.logger.Warn("serving stale weather",
				slog.String("city", cityName),
				slog.Any("error", err),
			)
			return snapshot, nil
		}
		return nil, e.Wrap(op, err)
	}

	c.store(cityName, fetched)
	return fetched, nil
}

// RefreshAll re-fetches every city whose entry is stale or missing, with
// bounded concurrency and independent per-city outcomes. It returns the
// snapshot map for every city that has data (refreshed or stale-kept) and
// an error map for cities with no data at all.
func (c *Cache) RefreshAll(ctx context.Context) (map[string]*domain.WeatherSnapshot, map[string]error) {
	var (
		mu      sync.Mutex
		results = make(map[string]*domain.WeatherSnapshot, len(c.cities))
		failed  = make(map[string]error)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanout)

	for _, city := range c.cities {
		g.Go(func() error {
			snapshot, fresh, ok := c.lookup(city.Name)
			if ok && fresh {
				mu.Lock()
				results[city.Name] = snapshot
				mu.Unlock()
				return nil
			}

			fetched, err := c.source.Fetch(ctx, city)
			if err != nil {
				mu.Lock()
				if ok {
					// Stale beats absent; the slot keeps its prior value.
					results[city.Name] = snapshot
				} else {
					failed[city.Name] = err
				}
				mu.Unlock()
				return nil
			}

			c.store(city.Name, fetched)
			mu.Lock()
			results[city.Name] = fetched
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; failures are captured per city above.
	_ = g.Wait()

	return results, failed
}
