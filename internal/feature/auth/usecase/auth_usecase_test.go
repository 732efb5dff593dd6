package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sibtech_backend/internal/feature/auth/domain/entity"
	"sibtech_backend/internal/shared/identity"
)

// memoryUserRepository keeps users in a map keyed by exact username.
type memoryUserRepository struct {
	byName map[string]*entity.User
	nextID uint
	err    error
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{byName: map[string]*entity.User{}}
}

func (m *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byName[user.Username]; ok {
		return ErrUsernameAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.byName[user.Username] = &cp
	return nil
}

func (m *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// mockSessionRepository is a func-field mock of SessionRepository.
type mockSessionRepository struct {
	CreateFunc        func(ctx context.Context, s *entity.Session) error
	FindByIDFunc      func(ctx context.Context, id string) (*entity.Session, error)
	RevokeFunc        func(ctx context.Context, id string) error
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
	created           []*entity.Session
}

func (m *mockSessionRepository) Create(ctx context.Context, s *entity.Session) error {
	m.created = append(m.created, s)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrSessionNotFound
}

func (m *mockSessionRepository) Revoke(ctx context.Context, id string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, id)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// mockTokenGenerator is a mock implementation of TokenGenerator.
type mockTokenGenerator struct {
	GenerateTokenFunc func(userID uint, username, sessionID string) (string, error)
}

func (m *mockTokenGenerator) GenerateToken(userID uint, username, sessionID string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, username, sessionID)
	}
	return "mock-jwt-token", nil
}

func newTestUsecase(users UserRepository, sessions SessionRepository, tokens TokenGenerator) *authUsecase {
	uc := NewAuthUsecase(users, sessions, tokens, time.Hour)
	uc.cost = bcrypt.MinCost
	uc.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	uc.newID = func() string { return "session-1" }
	return uc
}

func TestAuthUsecase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a bcrypt hash", func(t *testing.T) {
		repo := newMemoryUserRepository()
		uc := newTestUsecase(repo, &mockSessionRepository{}, &mockTokenGenerator{})

		require.NoError(t, uc.Register(ctx, "alice", "pw123"))

		stored := repo.byName["alice"]
		require.NotNil(t, stored)
		assert.NotEqual(t, "pw123", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123")))
		assert.NotZero(t, stored.ID)
	})

	t.Run("password length limit", func(t *testing.T) {
		tests := []struct {
			name     string
			password string
			wantErr  error
		}{
			{name: "72 bytes", password: strings.Repeat("p", 72)},
			{name: "73 bytes", password: strings.Repeat("p", 73), wantErr: ErrPasswordTooLong},
			{name: "multibyte over limit", password: strings.Repeat("س", 37), wantErr: ErrPasswordTooLong},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := newMemoryUserRepository()
				uc := newTestUsecase(repo, &mockSessionRepository{}, &mockTokenGenerator{})

				err := uc.Register(ctx, "alice", tt.password)

				if tt.wantErr == nil {
					require.NoError(t, err)
					assert.Len(t, repo.byName, 1)
					return
				}
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.byName)
			})
		}
	})

	t.Run("empty fields are rejected", func(t *testing.T) {
		tests := []struct{ username, password string }{
			{"", "pw"},
			{"   ", "pw"},
			{"alice", ""},
		}
		for _, tt := range tests {
			repo := newMemoryUserRepository()
			uc := newTestUsecase(repo, &mockSessionRepository{}, &mockTokenGenerator{})

			err := uc.Register(ctx, tt.username, tt.password)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.byName)
		}
	})

	t.Run("second registration of the same username always fails", func(t *testing.T) {
		repo := newMemoryUserRepository()
		uc := newTestUsecase(repo, &mockSessionRepository{}, &mockTokenGenerator{})
		require.NoError(t, uc.Register(ctx, "alice", "pw123"))

		for _, pw := range []string{"pw123", "other", "x"} {
			assert.ErrorIs(t, uc.Register(ctx, "alice", pw), ErrUsernameAlreadyExists)
		}
		// usernames are case-sensitive
		assert.NoError(t, uc.Register(ctx, "Alice", "pw123"))
	})

	t.Run("repository failure is propagated", func(t *testing.T) {
		dbErr := errors.New("database error")
		repo := newMemoryUserRepository()
		repo.err = dbErr
		uc := newTestUsecase(repo, &mockSessionRepository{}, &mockTokenGenerator{})

		assert.ErrorIs(t, uc.Register(ctx, "alice", "pw123"), dbErr)
	})
}

func TestAuthUsecase_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryUserRepository()
	uc := newTestUsecase(repo, &mockSessionRepository{}, &mockTokenGenerator{})
	require.NoError(t, uc.Register(ctx, "alice", "pw123"))

	t.Run("correct password", func(t *testing.T) {
		sess, err := uc.Authenticate(ctx, "alice", "pw123")
		require.NoError(t, err)
		assert.Equal(t, identity.SessionContext{UserID: 1, Username: "alice"}, sess)
	})

	t.Run("any other password fails", func(t *testing.T) {
		for _, pw := range []string{"pw1234", "PW123", "", "pw12"} {
			_, err := uc.Authenticate(ctx, "alice", pw)
			assert.ErrorIs(t, err, ErrWrongPassword, "password %q", pw)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := uc.Authenticate(ctx, "bob", "pw123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("store failure is not reported as not found", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		broken := newMemoryUserRepository()
		broken.err = dbErr
		uc := newTestUsecase(broken, &mockSessionRepository{}, &mockTokenGenerator{})

		_, err := uc.Authenticate(ctx, "alice", "pw123")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login opens a session", func(t *testing.T) {
		repo := newMemoryUserRepository()
		sessions := &mockSessionRepository{}
		tokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID uint, username, sessionID string) (string, error) {
				assert.Equal(t, uint(1), userID)
				assert.Equal(t, "alice", username)
				assert.Equal(t, "session-1", sessionID)
				return "signed", nil
			},
		}
		uc := newTestUsecase(repo, sessions, tokens)
		require.NoError(t, uc.Register(ctx, "alice", "pw123"))

		res, err := uc.Login(ctx, "alice", "pw123", LoginMeta{UserAgent: "curl", IPAddress: "10.0.0.1"})

		require.NoError(t, err)
		assert.Equal(t, "signed", res.Token)
		assert.Equal(t, identity.SessionContext{UserID: 1, Username: "alice"}, res.Session)
		require.Len(t, sessions.created, 1)
		s := sessions.created[0]
		assert.Equal(t, "session-1", s.ID)
		assert.Equal(t, "curl", s.UserAgent)
		assert.Equal(t, "10.0.0.1", s.IPAddress)
		assert.Equal(t, s.CreatedAt.Add(time.Hour), s.ExpiresAt)
		assert.Equal(t, s.ExpiresAt, res.ExpiresAt)
	})

	t.Run("credential failures share one error", func(t *testing.T) {
		repo := newMemoryUserRepository()
		sessions := &mockSessionRepository{}
		uc := newTestUsecase(repo, sessions, &mockTokenGenerator{})
		require.NoError(t, uc.Register(ctx, "alice", "pw123"))

		_, errWrong := uc.Login(ctx, "alice", "nope", LoginMeta{})
		_, errMissing := uc.Login(ctx, "nobody", "pw123", LoginMeta{})

		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrWrongPassword)
		assert.ErrorIs(t, errMissing, ErrInvalidCredentials)
		assert.ErrorIs(t, errMissing, ErrUserNotFound)
		assert.Empty(t, sessions.created)
	})

	t.Run("session store failure", func(t *testing.T) {
		repo := newMemoryUserRepository()
		sessions := &mockSessionRepository{CreateFunc: func(ctx context.Context, s *entity.Session) error {
			return errors.New("redis down")
		}}
		uc := newTestUsecase(repo, sessions, &mockTokenGenerator{})
		require.NoError(t, uc.Register(ctx, "alice", "pw123"))

		_, err := uc.Login(ctx, "alice", "pw123", LoginMeta{})

		assert.EqualError(t, err, "failed to create session: redis down")
	})

	t.Run("token generation failure", func(t *testing.T) {
		repo := newMemoryUserRepository()
		tokens := &mockTokenGenerator{GenerateTokenFunc: func(uint, string, string) (string, error) {
			return "", errors.New("failed to sign token")
		}}
		uc := newTestUsecase(repo, &mockSessionRepository{}, tokens)
		require.NoError(t, uc.Register(ctx, "alice", "pw123"))

		_, err := uc.Login(ctx, "alice", "pw123", LoginMeta{})

		assert.EqualError(t, err, "failed to generate token: failed to sign token")
	})
}

func TestAuthUsecase_LogoutAndIsActive(t *testing.T) {
	ctx := context.Background()
	store := map[string]*entity.Session{}
	sessions := &mockSessionRepository{
		CreateFunc: func(ctx context.Context, s *entity.Session) error {
			store[s.ID] = s
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*entity.Session, error) {
			s, ok := store[id]
			if !ok {
				return nil, ErrSessionNotFound
			}
			return s, nil
		},
		RevokeFunc: func(ctx context.Context, id string) error {
			s, ok := store[id]
			if !ok {
				return ErrSessionNotFound
			}
			now := time.Now()
			s.RevokedAt = &now
			return nil
		},
	}
	repo := newMemoryUserRepository()
	uc := NewAuthUsecase(repo, sessions, &mockTokenGenerator{}, time.Hour)
	uc.cost = bcrypt.MinCost
	require.NoError(t, uc.Register(ctx, "alice", "pw123"))

	res, err := uc.Login(ctx, "alice", "pw123", LoginMeta{})
	require.NoError(t, err)
	var sid string
	for id := range store {
		sid = id
	}
	require.NotEmpty(t, sid)
	assert.Equal(t, "alice", res.Session.Username)

	active, err := uc.IsActive(ctx, sid)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, uc.Logout(ctx, sid))

	active, err = uc.IsActive(ctx, sid)
	require.NoError(t, err)
	assert.False(t, active, "revoked session must not be active")

	assert.NoError(t, uc.Logout(ctx, "unknown"), "logging out twice is harmless")

	active, err = uc.IsActive(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestAuthUsecase_Logout_StoreError(t *testing.T) {
	sessions := &mockSessionRepository{RevokeFunc: func(ctx context.Context, id string) error {
		return errors.New("db locked")
	}}
	uc := newTestUsecase(newMemoryUserRepository(), sessions, &mockTokenGenerator{})

	assert.EqualError(t, uc.Logout(context.Background(), "sid"), "failed to revoke session: db locked")
}

func TestAuthUsecase_PurgeExpiredSessions(t *testing.T) {
	sessions := &mockSessionRepository{DeleteExpiredFunc: func(ctx context.Context) (int64, error) { return 3, nil }}
	uc := newTestUsecase(newMemoryUserRepository(), sessions, &mockTokenGenerator{})

	n, err := uc.PurgeExpiredSessions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
