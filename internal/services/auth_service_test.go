package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelier-ms/repair-tracking-service/internal/auth"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

func newTestAuthService(t *testing.T, repo *fakeRepository) (AuthService, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repo, testLogger(), validator.New(), tokens), tokens
}

func seedUser(t *testing.T, repo *fakeRepository, email, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	user := &models.User{
		ID:           "u-" + email,
		Email:        email,
		Name:         "Marwa",
		LastName:     "Gharbi",
		Role:         role,
		PasswordHash: hash,
	}
	if err := repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a working token", func(t *testing.T) {
		repo := newFakeRepository()
		svc, tokens := newTestAuthService(t, repo)
		user := seedUser(t, repo, "marwa@atelier.tn", "s3cret-passw0rd", models.RoleAdmin)

		resp, err := svc.Login(ctx, &LoginRequest{Email: "marwa@atelier.tn", Password: "s3cret-passw0rd"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if resp.User.ID != user.ID || resp.User.Role != models.RoleAdmin {
			t.Errorf("identity = %+v", resp.User)
		}

		identity, err := tokens.Parse(resp.Token)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if identity.ID != user.ID {
			t.Errorf("token identity = %q, want %q", identity.ID, user.ID)
		}
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		repo := newFakeRepository()
		svc, _ := newTestAuthService(t, repo)
		seedUser(t, repo, "marwa@atelier.tn", "s3cret-passw0rd", models.RoleReception)

		_, unknownErr := svc.Login(ctx, &LoginRequest{Email: "nobody@atelier.tn", Password: "s3cret-passw0rd"})
		_, wrongErr := svc.Login(ctx, &LoginRequest{Email: "marwa@atelier.tn", Password: "wrong"})

		if !errors.Is(unknownErr, ErrInvalidCredentials) {
			t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
		}
		if !errors.Is(wrongErr, ErrInvalidCredentials) {
			t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
		}
		if unknownErr.Error() != wrongErr.Error() {
			t.Error("failure messages must not reveal which accounts exist")
		}
	})

	t.Run("directory error fails like bad credentials", func(t *testing.T) {
		repo := newFakeRepository()
		svc, _ := newTestAuthService(t, repo)
		seedUser(t, repo, "marwa@atelier.tn", "s3cret-passw0rd", models.RoleReception)
		repo.users.emailErr = errors.New("connection refused")

		_, err := svc.Login(ctx, &LoginRequest{Email: "marwa@atelier.tn", Password: "s3cret-passw0rd"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("lookup error: expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("malformed request rejected before lookup", func(t *testing.T) {
		repo := newFakeRepository()
		svc, _ := newTestAuthService(t, repo)

		_, err := svc.Login(ctx, &LoginRequest{Email: "not-an-email", Password: "x"})
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected ValidationErrors, got %v", err)
		}
	})
}
