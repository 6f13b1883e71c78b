// Package weatherclient is the client-side companion of the weather API.
// It keeps its own timestamped copy of the aggregate weather response in a
// local file, so a client process decides on its own clock whether a server
// round-trip is needed at all. The two cache tiers are independent: the
// server bounds calls to the weather provider, this one bounds calls to the
// server.
package weatherclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// CityWeather mirrors the server's per-city weather payload.
type CityWeather struct {
	Temp         float64 `json:"temp"`
	FeelsLike    float64 `json:"feelslike"`
	Conditions   string  `json:"conditions"`
	Icon         string  `json:"icon"`
	WindSpeedKph float64 `json:"windSpeed"`
	WindDir      string  `json:"windDir"`
	Humidity     int     `json:"humidity"`
	LastUpdated  string  `json:"lastUpdated"`
}

type storedState struct {
	Data      map[string]CityWeather `json:"data"`
	FetchedAt time.Time              `json:"fetched_at"`
}

const (
	DefaultTTL           = 3 * time.Hour
	DefaultCheckInterval = 30 * time.Minute
)

type Client struct {
	endpoint string
	path     string
	ttl      time.Duration
	interval time.Duration
	httpc    *http.Client
	clock    clockwork.Clock
	logger   *slog.Logger

	mu    sync.Mutex
	state *storedState
}

type Option func(*Client)

func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

func WithCheckInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the aggregate weather endpoint. cachePath is the
// durable local store; it survives client restarts and is re-read on first
// use.
func New(endpoint, cachePath string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		path:     cachePath,
		ttl:      DefaultTTL,
		interval: DefaultCheckInterval,
		httpc:    &http.Client{Timeout: 15 * time.Second},
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the city weather map, hitting the server only when the
// stored copy is older than the TTL. A failed round-trip degrades to the
// stored copy when one exists; the error surfaces only with nothing stored.
func (c *Client) Snapshot(ctx context.Context) (map[string]CityWeather, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.load()
	if stored != nil && c.clock.Since(stored.FetchedAt) < c.ttl {
		return stored.Data, nil
	}

	data, err := c.fetch(ctx)
	if err != nil {
		if stored != nil {
			c.logger.Warn("weather sync failed, using stored snapshot",
				slog.Time("fetched_at", stored.FetchedAt),
				slog.Any("error", err),
			)
			return stored.Data, nil
		}
		return nil, err
	}

	state := &storedState{Data: data, FetchedAt: c.clock.Now()}
	if err := c.persist(state); err != nil {
		c.logger.Warn("weather cache persist failed", slog.Any("error", err))
	}
	c.state = state

	return data, nil
}

// Run re-checks freshness on a fixed interval until ctx is canceled, so a
// long-lived client does not sit on stale data for a whole TTL window.
func (c *Client) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Snapshot(ctx); err != nil {
				c.logger.Warn("scheduled weather sync failed", slog.Any("error", err))
			}
		}
	}
}

func (c *Client) fetch(ctx context.Context) (map[string]CityWeather, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather endpoint status %d", resp.StatusCode)
	}

	var data map[string]CityWeather
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	return data, nil
}

// load returns the in-memory state, falling back to the cache file once.
func (c *Client) load() *storedState {
	if c.state != nil {
		return c.state
	}

	b, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var state storedState
	if err := json.Unmarshal(b, &state); err != nil {
		c.logger.Warn("weather cache file unreadable, ignoring", slog.Any("error", err))
		return nil
	}

	c.state = &state
	return c.state
}

func (c *Client) persist(state *storedState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}

	// Write-then-rename keeps a concurrent reader off a half-written file.
	tmp := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
