package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", 0)
	raw, err := m.Issue("u-1", "maria", "staff")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID() != "u-1" || claims.Username != "maria" || claims.Role != "staff" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != DefaultTTL {
		t.Fatalf("expected 24h lifetime, got %s", got)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, _ := NewManager("one", time.Hour).Issue("u-1", "maria", "staff")
	if _, err := NewManager("two", time.Hour).Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := m.Issue("u-1", "maria", "staff")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	m.now = time.Now
	if _, err := m.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := NewManager("secret", time.Hour).Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
