package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/shared/identity"
)

// dummyHash is compared against when the username is unknown so that
// both failure paths cost one bcrypt comparison.
// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository persists users.
// Defined here, on the consumer side.
type UserRepository interface {
	// Create persists a new user. It returns ErrUsernameAlreadyExists on a duplicate username.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns the user with exactly this username, or ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// TokenGenerator signs the access token handed out on login.
type TokenGenerator interface {
	GenerateToken(userID uint, username, sessionID string) (string, error)
}

// LoginMeta describes the client that is logging in.
type LoginMeta struct {
	UserAgent string
	IPAddress string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Session   identity.SessionContext
}

// authUsecase implements the credential store and the login/logout transitions.
type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenGenerator
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
	newID    func() string
}

// NewAuthUsecase wires the auth usecase.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenGenerator, tokenTTL time.Duration) *authUsecase {
	return &authUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Register stores a new user with a bcrypt hash of the password.
// Registration never logs the user in.
func (u *authUsecase) Register(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrInvalidInput
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Username: username, PasswordHash: string(hashed)}
	return u.users.Create(ctx, user)
}

// Authenticate verifies a username/password pair.
// It returns ErrUserNotFound or ErrWrongPassword; callers decide how much of that to reveal.
func (u *authUsecase) Authenticate(ctx context.Context, username, password string) (identity.SessionContext, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return identity.SessionContext{}, err
	}

	// always run bcrypt so unknown users take as long as wrong passwords
	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if user == nil {
		return identity.SessionContext{}, ErrUserNotFound
	}
	if compareErr != nil {
		return identity.SessionContext{}, ErrWrongPassword
	}
	return identity.SessionContext{UserID: user.ID, Username: user.Username}, nil
}

// Login authenticates the user, opens a server-side session and signs a token for it.
// Both credential failures are wrapped in ErrInvalidCredentials.
func (u *authUsecase) Login(ctx context.Context, username, password string, meta LoginMeta) (*LoginResult, error) {
	sess, err := u.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrWrongPassword) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, err
	}

	now := u.now()
	session := &entity.Session{
		ID:        u.newID(),
		UserID:    sess.UserID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.tokenTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.tokens.GenerateToken(sess.UserID, sess.Username, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, Session: sess}, nil
}

// Logout revokes the session. Revoking an unknown session is not an error.
func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsActive reports whether the session exists and is neither revoked nor expired.
func (u *authUsecase) IsActive(ctx context.Context, sessionID string) (bool, error) {
	s, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.ActiveAt(u.now()), nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (u *authUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return u.sessions.DeleteExpired(ctx)
}
