package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	users    map[string]*User
	sessions map[string]int64
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:    make(map[string]*User),
		sessions: make(map[string]int64),
		nextID:   1,
	}
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	if _, ok := m.users[email]; ok {
		return nil, shared.ErrAlreadyExists
	}
	u := &User{ID: m.nextID, Email: email, PasswordHash: passwordHash, IsActive: true}
	m.nextID++
	m.users[email] = u
	copied := *u
	return &copied, nil
}

func (m *mockRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time, ip, ua string) error {
	m.sessions[token] = userID
	return nil
}

func (m *mockRepository) DeleteSession(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func newTestService(t *testing.T) (*Service, *mockRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := newMockRepository()
	return NewService(repo, NewTokenStore(client, time.Hour)), repo
}

func seedUser(t *testing.T, repo *mockRepository, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = repo.CreateUser(context.Background(), email, string(hash))
	require.NoError(t, err)
	repo.users[email].IsActive = active
}

// ============================================================================
// TESTS
// ============================================================================

func TestLoginIssuesToken(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "owner@khata.in", "supersecret", true)

	resp, err := svc.Login(context.Background(),
		LoginRequest{Email: "owner@khata.in", Password: "supersecret"}, "10.0.0.1", "cli")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(1), resp.UserID)
	assert.Contains(t, repo.sessions, resp.Token)

	userID, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "owner@khata.in", "supersecret", true)

	_, err := svc.Login(context.Background(),
		LoginRequest{Email: "owner@khata.in", Password: "wrong-password"}, "", "")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(),
		LoginRequest{Email: "ghost@khata.in", Password: "supersecret"}, "", "")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "owner@khata.in", "supersecret", false)

	_, err := svc.Login(context.Background(),
		LoginRequest{Email: "owner@khata.in", Password: "supersecret"}, "", "")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "owner@khata.in", "supersecret", true)

	resp, err := svc.Login(context.Background(),
		LoginRequest{Email: "owner@khata.in", Password: "supersecret"}, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Token))
	_, err = svc.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.NotContains(t, repo.sessions, resp.Token)
}

func TestAuthenticateRejectsEmptyToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	user, err := svc.Register(context.Background(),
		RegisterRequest{Email: "owner@khata.in", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(repo.users["owner@khata.in"].PasswordHash), []byte("supersecret")))

	_, err = svc.Register(context.Background(),
		RegisterRequest{Email: "owner@khata.in", Password: "supersecret"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}
