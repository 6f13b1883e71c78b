package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"roadwatch/internal/config"
	"roadwatch/internal/domain"
	"roadwatch/pkg/e"

	"github.com/sony/gobreaker/v2"
)

// Source fetches current conditions for one city from weatherapi.com.
// It performs no retries; recovery policy lives in the cache.
type Source struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*domain.WeatherSnapshot]
	logger  *slog.Logger
}

func NewSource(cfg config.WeatherConfig, logger *slog.Logger) *Source {
	cb := gobreaker.NewCircuitBreaker[*domain.WeatherSnapshot](gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Source{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		breaker: cb,
		logger:  logger,
	}
}

type currentResponse struct {
	Current struct {
		TempC       float64 `json:"temp_c"`
		FeelslikeC  float64 `json:"feelslike_c"`
		WindKph     float64 `json:"wind_kph"`
		WindDir     string  `json:"wind_dir"`
		Humidity    int     `json:"humidity"`
		LastUpdated string  `json:"last_updated"`
		Condition   struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
}

func (s *Source) Fetch(ctx context.Context, city domain.City) (*domain.WeatherSnapshot, error) {
	const op = "weather.Source.Fetch"

	if s.apiKey == "" {
		return nil, fmt.Errorf("%s: weather api key: %w", op, e.ErrConfiguration)
	}

	snapshot, err := s.breaker.Execute(func() (*domain.WeatherSnapshot, error) {
		return s.fetch(ctx, city)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Warn("weather breaker open", slog.String("city", city.Name))
			return nil, fmt.Errorf("%s: breaker open: %w", op, e.ErrUpstream)
		}
		return nil, err
	}

	return snapshot, nil
}

func (s *Source) fetch(ctx context.Context, city domain.City) (*domain.WeatherSnapshot, error) {
	const op = "weather.Source.fetch"

	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("q", fmt.Sprintf("%g,%g", city.Lat, city.Lon))
	q.Set("aqi", "no")

	reqURL := s.baseURL + "/current.json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("weather fetch failed",
			slog.String("city", city.Name),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("weather non-success response",
			slog.String("city", city.Name),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, e.ErrUpstream)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, e.ErrUpstream)
	}

	return &domain.WeatherSnapshot{
		City:         city.Name,
		Temp:         body.Current.TempC,
		FeelsLike:    body.Current.FeelslikeC,
		Conditions:   body.Current.Condition.Text,
		Icon:         body.Current.Condition.Icon,
		WindSpeedKph: body.Current.WindKph,
		WindDir:      body.Current.WindDir,
		Humidity:     body.Current.Humidity,
		LastUpdated:  body.Current.LastUpdated,
	}, nil
}
