package adapters

import (
	"time"

	"sibtech_backend/internal/feature/auth/domain/entity"
)

// SessionModel is a row of the sessions table, used only when Redis is unavailable.
// The daily job deletes rows by expires_at.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:36"` // uuid
	UserID    uint       `gorm:"index;not null"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"`
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time
}

func (SessionModel) TableName() string { return "sessions" }

func (m SessionModel) toEntity() *entity.Session {
	s := entity.Session(m)
	return &s
}

func sessionRow(s *entity.Session) *SessionModel {
	m := SessionModel(*s)
	return &m
}
