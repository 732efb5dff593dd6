package entity

import "time"

// Session backs one issued token. The token's "sid" claim is Session.ID.
// Logout sets RevokedAt; the token is then refused even before ExpiresAt.
type Session struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	UserAgent string     `json:"user_agent,omitempty"`
	IPAddress string     `json:"ip,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Revoked reports whether the user logged out of this session.
func (s *Session) Revoked() bool { return s.RevokedAt != nil }

// ActiveAt reports whether the session still authorizes requests at now.
func (s *Session) ActiveAt(now time.Time) bool {
	return !s.Revoked() && now.Before(s.ExpiresAt)
}
