package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Notify   NotifyConfig
	Snapshot SnapshotConfig
	Market   MarketConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds a preflight result may be cached
}

// LogConfig controls the zerolog setup.
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// NotifyConfig controls where portfolio change events are published.
// An empty RedisURL selects the log-only sink.
type NotifyConfig struct {
	RedisURL      string
	ChannelPrefix string
	Timeout       time.Duration
}

// SnapshotConfig controls the daily snapshot job.
type SnapshotConfig struct {
	Cron    string
	Workers int
}

// MarketConfig selects the price source and its call budget.
type MarketConfig struct {
	PriceSource    string // "stored" or "yahoo"
	CallsPerMinute int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	notifyTimeout, err := getDuration("NOTIFY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	workers, err := getInt("SNAPSHOT_WORKERS", 4)
	if err != nil {
		return nil, err
	}

	callsPerMinute, err := getInt("PRICE_CALLS_PER_MINUTE", 60)
	if err != nil {
		return nil, err
	}

	corsMaxAge, err := getInt("CORS_MAX_AGE", 300)
	if err != nil {
		return nil, err
	}

	corsCredentials, err := getBool("CORS_ALLOW_CREDENTIALS", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
			AllowedMethods:   splitList(getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
			AllowedHeaders:   splitList(getEnv("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-Id")),
			ExposedHeaders:   splitList(getEnv("CORS_EXPOSED_HEADERS", "X-Request-Id")),
			AllowCredentials: corsCredentials,
			MaxAge:           corsMaxAge,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Notify: NotifyConfig{
			RedisURL:      os.Getenv("REDIS_URL"),
			ChannelPrefix: getEnv("NOTIFY_CHANNEL_PREFIX", "portfolio"),
			Timeout:       notifyTimeout,
		},
		Snapshot: SnapshotConfig{
			Cron:    getEnv("SNAPSHOT_CRON", "0 0 * * *"),
			Workers: workers,
		},
		Market: MarketConfig{
			PriceSource:    getEnv("PRICE_SOURCE", "stored"),
			CallsPerMinute: callsPerMinute,
		},
	}

	if config.Market.PriceSource != "stored" && config.Market.PriceSource != "yahoo" {
		return nil, fmt.Errorf("invalid PRICE_SOURCE %q: must be stored or yahoo", config.Market.PriceSource)
	}
	if config.CORS.MaxAge < 0 {
		return nil, fmt.Errorf("invalid CORS_MAX_AGE %d: must not be negative", config.CORS.MaxAge)
	}
	if config.Snapshot.Workers < 1 {
		return nil, fmt.Errorf("invalid SNAPSHOT_WORKERS %d: must be at least 1", config.Snapshot.Workers)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
