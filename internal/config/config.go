package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string         `json:"env"`
	Http     HttpConfig     `json:"http"`
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
	Weather  WeatherConfig  `json:"weather"`
	Auth     AuthConfig     `json:"auth"`
	Stats    StatsConfig    `json:"stats"`
	// AdminAPIKey guards the moderation endpoints only.
	AdminAPIKey string `json:"admin_api_key,omitempty"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	// ListTTL bounds how long a cached active-incident list may be served.
	ListTTL time.Duration `json:"list_ttl"`
}

type WeatherConfig struct {
	// APIKey may be empty: weather endpoints then fail with a configuration
	// error while incident serving keeps working.
	APIKey          string        `json:"api_key,omitempty"`
	BaseURL         string        `json:"base_url"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	RequestTimeout  time.Duration `json:"request_timeout"`
	RefreshSchedule string        `json:"refresh_schedule"`
	MaxConcurrent   int           `json:"max_concurrent"`
}

type AuthConfig struct {
	// VerifyURL points at the external identity collaborator that exchanges a
	// bearer token for a reporter profile.
	VerifyURL string        `json:"verify_url"`
	Timeout   time.Duration `json:"timeout"`
}

type StatsConfig struct {
	// Timezone fixes the calendar convention for day/month/year rollup
	// boundaries, regardless of server-local time.
	Timezone string `json:"timezone"`
}

func Load() (*Config, error) {

	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "roadwatch_db"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			ListTTL:  getEnvDuration("REDIS_LIST_TTL", 30*time.Second),
		},
		Weather: WeatherConfig{
			APIKey:          getEnv("WEATHERAPI_KEY", ""),
			BaseURL:         getEnv("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1"),
			CacheTTL:        getEnvDuration("WEATHER_CACHE_TTL", 3*time.Hour),
			RequestTimeout:  getEnvDuration("WEATHER_REQUEST_TIMEOUT", 10*time.Second),
			RefreshSchedule: getEnv("WEATHER_REFRESH_SCHEDULE", "@every 3h"),
			MaxConcurrent:   getEnvInt("WEATHER_MAX_CONCURRENT", 6),
		},
		Auth: AuthConfig{
			VerifyURL: getEnv("AUTH_VERIFY_URL", "http://auth-local:8081/api/v1/verify"),
			Timeout:   getEnvDuration("AUTH_TIMEOUT", 5*time.Second),
		},
		Stats: StatsConfig{
			Timezone: getEnv("STATS_TIMEZONE", "Europe/Podgorica"),
		},
		AdminAPIKey: getEnv("ADMIN_API_KEY", "super-secret-key"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.Bool("weather_configured", cfg.Weather.APIKey != ""),
		slog.String("stats_timezone", cfg.Stats.Timezone))

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.Http.Port == "" || (len(c.Http.Port) > 0 && c.Http.Port[0] != ':') {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	if c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}

	if _, err := time.LoadLocation(c.Stats.Timezone); err != nil {
		return errors.New("STATS_TIMEZONE is not a valid IANA zone")
	}

	if c.Weather.CacheTTL <= 0 {
		return errors.New("WEATHER_CACHE_TTL must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
