package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)

	token, err := ti.Issue("test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	subject, err := ti.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "test" {
		t.Errorf("subject = %q, want %q", subject, "test")
	}
}

func TestTokenVerifyFailures(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)

	t.Run("Malformed", func(t *testing.T) {
		if _, err := ti.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", time.Minute)
		token, err := other.Issue("test")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, err := ti.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		claims := jwt.RegisteredClaims{
			Subject:   "test",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := ti.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("MissingSubject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Minute)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := ti.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestTokenIssuerDefaultTTL(t *testing.T) {
	ti := NewTokenIssuer("secret", 0)
	if ti.ttl != defaultTokenTTL {
		t.Errorf("ttl = %v, want %v", ti.ttl, defaultTokenTTL)
	}
}
