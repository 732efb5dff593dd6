// Package redis connects to the optional Redis instance used for sessions, caching and demo state.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when REDIS_HOST is empty.
var ErrNotConfigured = errors.New("redis is not configured")

// Config holds Redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
}

// LoadConfig reads Redis settings from environment variables.
func LoadConfig() Config {
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

// NewRedisClient connects and pings Redis. Callers treat any error as "run without Redis".
func NewRedisClient(cfg Config) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	addr := cfg.Host + ":" + cfg.Port

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// connectivity check
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
