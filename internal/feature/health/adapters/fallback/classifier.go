// Package fallback wraps a primary classifier with a secondary one used whenever the primary fails.
package fallback

import (
	"context"
	"image"
	"log/slog"

	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/health/usecase"
)

type classifier struct {
	primary   usecase.HealthClassifier
	secondary usecase.HealthClassifier
}

var _ usecase.HealthClassifier = (*classifier)(nil)

// New returns a classifier that never surfaces the primary's errors.
func New(primary, secondary usecase.HealthClassifier) *classifier {
	return &classifier{primary: primary, secondary: secondary}
}

func (c *classifier) Classify(ctx context.Context, img image.Image) (entity.Diagnosis, error) {
	d, err := c.primary.Classify(ctx, img)
	if err == nil {
		return d, nil
	}
	slog.Warn("primary classifier failed, using fallback", "error", err)
	return c.secondary.Classify(ctx, img)
}
