// Package identity carries the authenticated caller through every component call.
package identity

// SessionContext is the identity of an authenticated user for the duration of one request.
// It is produced by the auth middleware and handed explicitly to each usecase method.
type SessionContext struct {
	UserID   uint
	Username string
}

// IsZero reports whether no user is attached.
func (s SessionContext) IsZero() bool {
	return s.UserID == 0
}
