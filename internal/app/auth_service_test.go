package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hydration/internal/app"
	"hydration/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	byIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn     func(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.byUsernameFn != nil {
		return m.byUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

type mockSessionRepo struct {
	sessions map[string]*domain.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	m.sessions[token] = &domain.Session{
		Token: token, UserID: userID, UserAgent: userAgent, IP: ip,
		ExpiresAt: expiresAt, CreatedAt: time.Now(),
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	for token, s := range m.sessions {
		if time.Now().After(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func TestLogin(t *testing.T) {
	users := &mockUserRepo{
		byUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			if username == "alice" {
				return &domain.User{ID: 1, Username: "alice", PasswordHash: hashOf(t, "secret-pw")}, nil
			}
			return nil, nil
		},
	}
	svc := app.NewAuthService(users, newMockSessionRepo())

	if _, err := svc.Login(context.Background(), "alice", "wrong", "ua", "ip"); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "secret-pw", "ua", "ip"); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	token, err := svc.Login(context.Background(), "alice", "secret-pw", "ua", "ip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
}

func TestValidateSession(t *testing.T) {
	sessions := newMockSessionRepo()
	users := &mockUserRepo{
		byIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "alice"}, nil
		},
	}
	svc := app.NewAuthService(users, sessions)

	_ = sessions.Create(context.Background(), 1, "tok", "ua", "ip", time.Now().Add(time.Hour))

	user, err := svc.ValidateSession(context.Background(), "tok", "ua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("expected user 1, got %d", user.ID)
	}

	if _, err := svc.ValidateSession(context.Background(), "missing", "ua"); !errors.Is(err, app.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	// Mismatched user agent invalidates the session.
	if _, err := svc.ValidateSession(context.Background(), "tok", "other-ua"); !errors.Is(err, app.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired on UA mismatch, got %v", err)
	}
	if _, ok := sessions.sessions["tok"]; ok {
		t.Error("expected session deleted after UA mismatch")
	}

	_ = sessions.Create(context.Background(), 1, "old", "ua", "ip", time.Now().Add(-time.Minute))
	if _, err := svc.ValidateSession(context.Background(), "old", "ua"); !errors.Is(err, app.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	existing := map[string]*domain.User{
		"taken": {ID: 1, Username: "taken"},
	}
	users := &mockUserRepo{
		byUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			return existing[username], nil
		},
		createFn: func(_ context.Context, username, passwordHash string) (*domain.User, error) {
			if passwordHash == "" {
				t.Fatal("expected a bcrypt hash for local registration")
			}
			return &domain.User{ID: 2, Username: username, PasswordHash: passwordHash}, nil
		},
	}
	svc := app.NewAuthService(users, newMockSessionRepo())

	if _, err := svc.Register(context.Background(), "taken", "password123"); !errors.Is(err, app.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "short"); !errors.Is(err, app.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}

	user, err := svc.Register(context.Background(), "bob", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "bob" {
		t.Errorf("unexpected username %q", user.Username)
	}
}

func TestValidateForwardAuth_AutoProvisions(t *testing.T) {
	created := false
	users := &mockUserRepo{
		createFn: func(_ context.Context, username, passwordHash string) (*domain.User, error) {
			created = true
			if passwordHash != "" {
				t.Fatal("external identities must not get a password hash")
			}
			return &domain.User{ID: 3, Username: username}, nil
		},
	}
	svc := app.NewAuthService(users, newMockSessionRepo())

	user, err := svc.ValidateForwardAuth(context.Background(), "carol@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || user.ID != 3 {
		t.Errorf("expected auto-provisioned user, got %+v (created=%v)", user, created)
	}

	if _, err := svc.ValidateForwardAuth(context.Background(), ""); err == nil {
		t.Error("expected error for empty remote user")
	}
}
