package usecase

import (
	"context"

	"sibtech_backend/internal/feature/auth/domain/entity"
)

// SessionRepository stores the server side of issued tokens (Redis or the sessions table).
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error

	// FindByID returns ErrSessionNotFound for unknown or already purged ids.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke sets RevokedAt. Revoking twice is a no-op.
	Revoke(ctx context.Context, id string) error

	// DeleteExpired purges sessions past ExpiresAt and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
