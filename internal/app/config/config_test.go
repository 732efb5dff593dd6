package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "JWT_SECRET", "TOKEN_TTL", "CLASSIFIER_BACKEND", "MODEL_SERVER_URL", "MODEL_NAME",
	"MODEL_INPUT_SIZE", "MODEL_TIMEOUT", "MODEL_RATE_LIMIT", "CORS_ALLOW_ORIGINS", "REMINDER_TIME",
	"APP_TIMEZONE", "DEMO_TTL", "MEASUREMENT_CACHE_TTL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, BackendHeuristic, cfg.ClassifierBackend)
	assert.Equal(t, "seedling_model", cfg.ModelName)
	assert.Equal(t, 224, cfg.ModelInputSize)
	assert.Equal(t, 10*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 60, cfg.ModelRateLimit)
	assert.Equal(t, "07:00", cfg.ReminderTime)
	assert.Equal(t, "Asia/Tehran", cfg.Location.String())
	assert.Equal(t, time.Hour, cfg.DemoTTL)
	assert.Equal(t, 5*time.Minute, cfg.MeasurementCacheTTL)
	assert.Empty(t, cfg.CORSAllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CLASSIFIER_BACKEND", "External")
	t.Setenv("MODEL_SERVER_URL", "http://tf:8501/")
	t.Setenv("MODEL_RATE_LIMIT", "0")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("DEMO_TTL", "30m")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendExternal, cfg.ClassifierBackend)
	assert.Equal(t, "http://tf:8501", cfg.ModelServerURL)
	assert.Equal(t, 0, cfg.ModelRateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 30*time.Minute, cfg.DemoTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown backend", key: "CLASSIFIER_BACKEND", val: "magic"},
		{name: "bad duration", key: "TOKEN_TTL", val: "one day"},
		{name: "negative duration", key: "DEMO_TTL", val: "-1h"},
		{name: "bad integer", key: "MODEL_INPUT_SIZE", val: "big"},
		{name: "bad timezone", key: "APP_TIMEZONE", val: "Mars/Olympus"},
		{name: "external without url", key: "CLASSIFIER_BACKEND", val: "external"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to ""
	require.NoError(t, os.Unsetenv("MODEL_NAME"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MODEL_NAME=from_file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MODEL_NAME") })

	LoadDotEnv(path)
	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.ModelName)
}
