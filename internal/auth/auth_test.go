package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plain-text password")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword should accept the original password")
	}

	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword should reject a different password")
	}
}

func testIdentity() *models.Identity {
	return &models.Identity{
		ID:       "6c1f3b1e-0000-4000-8000-000000000001",
		Email:    "cyrine@atelier.tn",
		Name:     "Cyrine",
		LastName: "Ben Salah",
		Role:     models.RoleReception,
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := manager.Generate(testIdentity())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expiry should be in the future")
	}

	got, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := testIdentity()
	if *got != *want {
		t.Errorf("parsed identity %+v, want %+v", got, want)
	}
}

func TestTokenManager_RejectsBadTokens(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		if _, err := manager.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := manager.Generate(testIdentity())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		other := NewTokenManager("different-secret", time.Hour)
		if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenManager("test-secret", -time.Minute)
		token, _, err := expired.Generate(testIdentity())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if _, err := expired.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("unrecognized role", func(t *testing.T) {
		identity := testIdentity()
		identity.Role = models.UserRole("superuser")

		token, _, err := manager.Generate(identity)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
