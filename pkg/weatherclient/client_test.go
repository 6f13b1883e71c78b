package weatherclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"roadwatch/pkg/weatherclient"
)

func weatherBody() map[string]weatherclient.CityWeather {
	return map[string]weatherclient.CityWeather{
		"Podgorica": {Temp: 31.5, Conditions: "Sunny", Humidity: 48},
		"Budva":     {Temp: 28.0, Conditions: "Partly cloudy", Humidity: 60},
	}
}

func newWeatherServer(t *testing.T, calls *atomic.Int64, body map[string]weatherclient.CityWeather) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
}

func TestSnapshot_FetchesAndPersists(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newWeatherServer(t, &calls, weatherBody())
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "weather.json")
	clock := clockwork.NewFakeClock()

	c := weatherclient.New(srv.URL, cachePath, weatherclient.WithClock(clock))

	got, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, weatherBody(), got)
	require.EqualValues(t, 1, calls.Load())

	// The snapshot must survive on disk for the next process.
	b, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	require.Contains(t, string(b), "Podgorica")
}

func TestSnapshot_FreshCopySkipsServer(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newWeatherServer(t, &calls, weatherBody())
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "weather.json")
	clock := clockwork.NewFakeClock()

	c := weatherclient.New(srv.URL, cachePath, weatherclient.WithClock(clock))

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	got, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, weatherBody(), got)
	require.EqualValues(t, 1, calls.Load(), "fresh copy must not hit the server")
}

func TestSnapshot_TTLExpiryRefetches(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newWeatherServer(t, &calls, weatherBody())
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "weather.json")
	clock := clockwork.NewFakeClock()

	c := weatherclient.New(srv.URL, cachePath, weatherclient.WithClock(clock))

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	clock.Advance(3*time.Hour + time.Minute)

	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

func TestSnapshot_ServerFailureFallsBackToStored(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newWeatherServer(t, &calls, weatherBody())

	cachePath := filepath.Join(t.TempDir(), "weather.json")
	clock := clockwork.NewFakeClock()

	c := weatherclient.New(srv.URL, cachePath, weatherclient.WithClock(clock))

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	srv.Close()
	clock.Advance(4 * time.Hour)

	got, err := c.Snapshot(context.Background())
	require.NoError(t, err, "stored snapshot must be served when the server is down")
	require.Equal(t, weatherBody(), got)
}

func TestSnapshot_NoStoredDataSurfacesError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "weather.json")

	c := weatherclient.New(srv.URL, cachePath)

	_, err := c.Snapshot(context.Background())
	require.Error(t, err)
}

func TestSnapshot_LoadsCacheFileAcrossRestarts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newWeatherServer(t, &calls, weatherBody())
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "weather.json")
	clock := clockwork.NewFakeClock()

	first := weatherclient.New(srv.URL, cachePath, weatherclient.WithClock(clock))
	_, err := first.Snapshot(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	// Same cache file, fresh process: the file carries the timestamp so no
	// round-trip happens.
	second := weatherclient.New(srv.URL, cachePath, weatherclient.WithClock(clock))
	got, err := second.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, weatherBody(), got)
	require.EqualValues(t, 1, calls.Load())
}

func TestSnapshot_CorruptCacheFileIgnored(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newWeatherServer(t, &calls, weatherBody())
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "weather.json")
	require.NoError(t, os.WriteFile(cachePath, []byte("{garbage"), 0o644))

	c := weatherclient.New(srv.URL, cachePath)

	got, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, weatherBody(), got)
	require.EqualValues(t, 1, calls.Load())
}
