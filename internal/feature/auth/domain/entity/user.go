// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered grower account.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the login name. Matching is exact and case-sensitive.
	Username string `gorm:"uniqueIndex;size:150;not null"`

	// PasswordHash is the bcrypt hash of the password. Plaintext is never stored.
	PasswordHash string `gorm:"column:password_hash;size:255;not null"`

	// CreatedAt is the timestamp when the user signed up.
	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
