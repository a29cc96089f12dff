package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feed     FeedConfig
	Backup   BackupConfig
	Stats    StatsConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Host                    string
	Port                    int
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	GracefulShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type FeedConfig struct {
	URL             string
	Name            string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	RateLimit       float64
	MaxConcurrent   int
}

type BackupConfig struct {
	RedisURL string
	Dir      string
}

type StatsConfig struct {
	CostPerTrip   float64
	ReferenceDate string // inauguration day, YYYY-MM-DD
	TripCategory  string
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

type AdminConfig struct {
	AdminSecret string
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:                    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                    getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:             getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:            getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:             getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulShutdownTimeout: getEnvDuration("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 1*time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Feed: FeedConfig{
			URL:             getEnv("FEED_URL", "https://where-is-the-president.miles-gilbert.workers.dev/"),
			Name:            getEnv("FEED_NAME", "schedule-feed"),
			FetchTimeout:    getEnvDuration("FEED_FETCH_TIMEOUT", 30*time.Second),
			RefreshInterval: getEnvDuration("FEED_REFRESH_INTERVAL", 15*time.Minute),
			RateLimit:       getEnvFloat("FEED_RATE_LIMIT", 1.0),
			MaxConcurrent:   getEnvInt("FEED_MAX_CONCURRENT", 1),
		},
		Backup: BackupConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			Dir:      getEnv("BACKUP_DIR", "data"),
		},
		Stats: StatsConfig{
			CostPerTrip:   getEnvFloat("STATS_COST_PER_TRIP", 3400000),
			ReferenceDate: getEnv("STATS_REFERENCE_DATE", "2025-01-20"),
			TripCategory:  getEnv("STATS_TRIP_CATEGORY", "mar_a_lago"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Admin: AdminConfig{
			AdminSecret: getEnv("ADMIN_SECRET", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Feed.URL == "" {
		return fmt.Errorf("feed URL must be set")
	}
	if c.Feed.RefreshInterval < time.Minute {
		return fmt.Errorf("feed refresh interval must be at least 1m")
	}
	if c.Stats.CostPerTrip < 0 {
		return fmt.Errorf("per-trip cost must be non-negative")
	}
	if _, err := time.Parse("2006-01-02", c.Stats.ReferenceDate); err != nil {
		return fmt.Errorf("invalid stats reference date %q: %w", c.Stats.ReferenceDate, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
