package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/feature/auth/usecase"
)

// seedSession creates a test session in the database for testing.
func seedSession(t *testing.T, gdb *gorm.DB, id string, userID uint, expiresAt time.Time, revokedAt *time.Time) {
	t.Helper()

	err := gdb.Create(&SessionModel{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		RevokedAt: revokedAt,
	}).Error
	require.NoError(t, err, "failed to seed session")
}

func TestSessionGorm_CreateAndFind(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSessionRepository(gdb)
	ctx := context.Background()

	s := &entity.Session{
		ID:        "sid-1",
		UserID:    7,
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.168.1.1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindByID(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, uint(7), found.UserID)
	assert.Equal(t, "Mozilla/5.0", found.UserAgent)
	assert.True(t, found.ActiveAt(time.Now()))

	assert.Error(t, repo.Create(ctx, s), "duplicate session id")

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionGorm_Revoke(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSessionRepository(gdb)
	ctx := context.Background()
	seedSession(t, gdb, "sid-1", 1, time.Now().Add(time.Hour), nil)

	require.NoError(t, repo.Revoke(ctx, "sid-1"))

	found, err := repo.FindByID(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found.Revoked())
	assert.False(t, found.ActiveAt(time.Now()))

	assert.NoError(t, repo.Revoke(ctx, "sid-1"), "revoking twice keeps the session revoked")
	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionGorm_DeleteExpired(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSessionRepository(gdb)
	ctx := context.Background()
	seedSession(t, gdb, "old-1", 1, time.Now().Add(-2*time.Hour), nil)
	seedSession(t, gdb, "old-2", 2, time.Now().Add(-time.Minute), nil)
	seedSession(t, gdb, "live", 1, time.Now().Add(time.Hour), nil)

	n, err := repo.DeleteExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = repo.FindByID(ctx, "live")
	assert.NoError(t, err)
	_, err = repo.FindByID(ctx, "old-1")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}
