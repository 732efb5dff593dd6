// Package config resolves application settings once at boot from .env and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on minimal images

	"github.com/joho/godotenv"
)

// Classifier backends.
const (
	BackendHeuristic = "heuristic"
	BackendExternal  = "external"
	BackendVision    = "vision"
)

// Config is the application configuration.
type Config struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration

	ClassifierBackend string
	ModelServerURL    string
	ModelName         string
	ModelInputSize    int
	ModelTimeout      time.Duration
	ModelRateLimit    int // calls per minute, <= 0 disables throttling

	CORSAllowOrigins []string
	ReminderTime     string // HH:MM
	Location         *time.Location

	DemoTTL             time.Duration
	MeasurementCacheTTL time.Duration
}

// LoadDotEnv loads path when present. A missing file is not an error.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		slog.Info(".env not found; using system environment variables", "path", path)
	}
}

// Load reads the environment. Invalid values are errors; missing ones take defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ClassifierBackend: strings.ToLower(getenv("CLASSIFIER_BACKEND", BackendHeuristic)),
		ModelServerURL:    strings.TrimRight(os.Getenv("MODEL_SERVER_URL"), "/"),
		ModelName:         getenv("MODEL_NAME", "seedling_model"),
		ReminderTime:      getenv("REMINDER_TIME", "07:00"),
	}

	var err error
	if cfg.TokenTTL, err = duration("TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ModelTimeout, err = duration("MODEL_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DemoTTL, err = duration("DEMO_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.MeasurementCacheTTL, err = duration("MEASUREMENT_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ModelInputSize, err = integer("MODEL_INPUT_SIZE", 224); err != nil {
		return Config{}, err
	}
	if cfg.ModelRateLimit, err = integer("MODEL_RATE_LIMIT", 60); err != nil {
		return Config{}, err
	}

	switch cfg.ClassifierBackend {
	case BackendHeuristic, BackendExternal, BackendVision:
	default:
		return Config{}, fmt.Errorf("CLASSIFIER_BACKEND must be heuristic, external or vision, got %q", cfg.ClassifierBackend)
	}
	if cfg.ClassifierBackend == BackendExternal && cfg.ModelServerURL == "" {
		return Config{}, fmt.Errorf("MODEL_SERVER_URL is required when CLASSIFIER_BACKEND=external")
	}

	tz := getenv("APP_TIMEZONE", "Asia/Tehran")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("APP_TIMEZONE %q: %w", tz, err)
	}

	if raw := os.Getenv("CORS_ALLOW_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, o)
			}
		}
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func integer(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}
