package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

type memUsers struct {
	byID map[string]*models.User
	err  error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func newTestAuthenticator(users UserStorage) *PasswordAuthenticator {
	a := NewPasswordAuthenticator(users)
	a.cost = 4
	return a
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(newMemUsers())

	user, err := a.Register(ctx, "  Sam@Example.com ", "Sam", "b", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "sam@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.HomePlatoon != "B" {
		t.Errorf("expected home platoon B, got %q", user.HomePlatoon)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}

	got, err := a.Authenticate(ctx, "SAM@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(newMemUsers())
	if _, err := a.Register(ctx, "sam@example.com", "Sam", "", "password1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"duplicate email", "SAM@example.com", "password1", ErrEmailExists},
		{"short password", "kim@example.com", "short", ErrWeakPassword},
		{"invalid email", "kim", "password1", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, "Kim", "", tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	a := newTestAuthenticator(users)
	if _, err := a.Register(ctx, "sam@example.com", "Sam", "", "password1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := a.Authenticate(ctx, "sam@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	users.err = errors.New("disk full")
	_, err := a.Authenticate(ctx, "sam@example.com", "password1")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("store failure: expected wrapped store error, got %v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "sam@example.com"}

	token, expiresAt, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	sess := claims.Session()
	if sess.UserID != "user-1" || sess.Email != "sam@example.com" {
		t.Errorf("unexpected session %+v", sess)
	}
	if !sess.ExpiresAt.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("expected expiry %v, got %v", expiresAt, sess.ExpiresAt)
	}
	if !sess.Authenticated(time.Now()) {
		t.Error("fresh session should be authenticated")
	}
}

func TestJWTValidateRejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "sam@example.com"}

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		token, _, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		if _, err := m.Validate(s); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate(strings.Repeat("x", 20)); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
