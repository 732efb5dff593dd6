package di

import (
	"context"
	"log/slog"
	"time"

	"sibtech_backend/internal/app/config"
	"sibtech_backend/internal/feature/health/adapters/fallback"
	"sibtech_backend/internal/feature/health/adapters/heuristic"
	"sibtech_backend/internal/feature/health/adapters/modelserver"
	"sibtech_backend/internal/feature/health/adapters/vision"
	"sibtech_backend/internal/feature/health/usecase"
	infrahttp "sibtech_backend/internal/platform/http"
	"sibtech_backend/internal/shared/ratelimiter"
)

const probeTimeout = 3 * time.Second

// NewClassifier resolves the classifier backend once. The heuristic is always the fallback.
// The returned close function releases backend clients and is never nil.
func NewClassifier(ctx context.Context, cfg config.Config) (usecase.HealthClassifier, func() error) {
	base := heuristic.New()
	noop := func() error { return nil }

	switch cfg.ClassifierBackend {
	case config.BackendExternal:
		client := modelserver.NewClient(modelserver.Config{
			BaseURL:   cfg.ModelServerURL,
			ModelName: cfg.ModelName,
			InputSize: cfg.ModelInputSize,
			Timeout:   cfg.ModelTimeout,
		}, infrahttp.NewHTTPClient(cfg.ModelTimeout), ratelimiter.NewRateLimiter(cfg.ModelRateLimit, time.Minute))

		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := client.Ping(pctx); err != nil {
			slog.Warn("model server unreachable, using heuristic classifier", "url", cfg.ModelServerURL, "error", err)
			return base, noop
		}
		slog.Info("classifier ready", "backend", config.BackendExternal, "model", cfg.ModelName)
		return fallback.New(client, base), noop

	case config.BackendVision:
		v, err := vision.NewClassifier(ctx)
		if err != nil {
			slog.Warn("vision client unavailable, using heuristic classifier", "error", err)
			return base, noop
		}
		slog.Info("classifier ready", "backend", config.BackendVision)
		return fallback.New(v, base), v.Close
	}

	slog.Info("classifier ready", "backend", config.BackendHeuristic)
	return base, noop
}
