package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/domains/user"
	"library-api/internal/shared/middleware"
	"library-api/pkg/jwt"
)

type repoMock struct {
	createFn        func(ctx context.Context, u *user.User) error
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*user.User, error)
	findByEmailFn   func(ctx context.Context, email string) (*user.User, error)
	updateFn        func(ctx context.Context, u *user.User) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
	listFn          func(ctx context.Context, req user.ListUsersRequest) ([]user.User, int, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)

	created []*user.User
}

func (m *repoMock) Create(ctx context.Context, u *user.User) error {
	m.created = append(m.created, u)
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}
func (m *repoMock) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *repoMock) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *repoMock) Update(ctx context.Context, u *user.User) error { return m.updateFn(ctx, u) }
func (m *repoMock) Delete(ctx context.Context, id uuid.UUID) error { return m.deleteFn(ctx, id) }
func (m *repoMock) List(ctx context.Context, req user.ListUsersRequest) ([]user.User, int, error) {
	return m.listFn(ctx, req)
}
func (m *repoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

// cacheMock records denylist writes
type cacheMock struct {
	entries map[string]time.Duration
}

func newCacheMock() *cacheMock {
	return &cacheMock{entries: map[string]time.Duration{}}
}

func (c *cacheMock) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}
func (c *cacheMock) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.entries[key] = ttl
	return nil
}
func (c *cacheMock) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
func (c *cacheMock) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}
func (c *cacheMock) Ping(ctx context.Context) error { return nil }

func newTestService(repo *repoMock, denylist *cacheMock) user.Service {
	return NewUserService(repo, jwt.NewManager("test-secret", 15, 72), denylist)
}

func TestRegister_Success(t *testing.T) {
	m := &repoMock{}
	s := newTestService(m, newCacheMock())

	resp, err := s.Register(context.Background(), user.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	require.Len(t, m.created, 1)
	created := m.created[0]
	require.Equal(t, user.RoleUser, created.Role, "self-registration never grants admin")
	require.NotEqual(t, "sup3rsecret", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("sup3rsecret")))

	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, "alice@example.com", resp.User.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	m := &repoMock{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	s := newTestService(m, newCacheMock())

	_, err := s.Register(context.Background(), user.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "sup3rsecret",
	})
	require.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	require.Empty(t, m.created)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)

	known := &user.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Name:         "Alice",
		Role:         user.RoleUser,
	}

	m := &repoMock{
		findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if email == known.Email {
				return known, nil
			}
			return nil, user.ErrUserNotFound
		},
	}
	s := newTestService(m, newCacheMock())

	t.Run("success", func(t *testing.T) {
		resp, err := s.Login(context.Background(), user.LoginRequest{
			Email:    "alice@example.com",
			Password: "sup3rsecret",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login(context.Background(), user.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		require.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to same error", func(t *testing.T) {
		_, err := s.Login(context.Background(), user.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		require.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestLogout_DenylistsTokenUntilExpiry(t *testing.T) {
	denylist := newCacheMock()
	s := newTestService(&repoMock{}, denylist)

	err := s.Logout(context.Background(), "token-123", time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	ttl, ok := denylist.entries[middleware.DenylistKey("token-123")]
	require.True(t, ok)
	require.Greater(t, ttl, 9*time.Minute)
	require.LessOrEqual(t, ttl, 10*time.Minute)
}

func TestLogout_ExpiredTokenIsNoop(t *testing.T) {
	denylist := newCacheMock()
	s := newTestService(&repoMock{}, denylist)

	err := s.Logout(context.Background(), "token-123", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Empty(t, denylist.entries)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	mgr := jwt.NewManager("test-secret", 15, 72)
	s := NewUserService(&repoMock{}, mgr, newCacheMock())

	accessToken, err := mgr.GenerateAccessToken(uuid.New().String(), "alice@example.com", "user")
	require.NoError(t, err)

	_, err = s.RefreshToken(context.Background(), accessToken)
	require.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestRefreshToken_PicksUpRoleChange(t *testing.T) {
	mgr := jwt.NewManager("test-secret", 15, 72)
	promoted := &user.User{
		ID:    uuid.New(),
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  user.RoleAdmin, // promoted since the token was issued
	}

	m := &repoMock{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			return promoted, nil
		},
	}
	s := NewUserService(m, mgr, newCacheMock())

	refreshToken, err := mgr.GenerateRefreshToken(promoted.ID.String())
	require.NoError(t, err)

	resp, err := s.RefreshToken(context.Background(), refreshToken)
	require.NoError(t, err)

	claims, err := mgr.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
}
