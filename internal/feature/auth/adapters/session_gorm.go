package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/feature/auth/usecase"
)

// sessionGorm is the relational implementation of the SessionRepository interface.
// It is used when Redis is not configured.
type sessionGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// Compile-time check to ensure sessionGorm implements SessionRepository.
var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionRepository creates a new instance of sessionGorm.
func NewSessionRepository(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db, now: time.Now}
}

// Create persists a new session to the database.
func (r *sessionGorm) Create(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Create(sessionRow(session)).Error
}

// FindByID retrieves a session by its ID.
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.toEntity(), nil
}

// Revoke marks a session as revoked by its ID.
func (r *sessionGorm) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", r.now())

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&SessionModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return usecase.ErrSessionNotFound
		}
	}
	return nil
}

// DeleteExpired removes all expired sessions from storage.
func (r *sessionGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", r.now()).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}
