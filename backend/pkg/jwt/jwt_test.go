package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"helpdesk-system/backend/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 4 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, expiresAt, err := m.GenerateAccessToken(7, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", claims.UserID)
	}
	if claims.Username != "admin" {
		t.Errorf("expected Username=admin, got %s", claims.Username)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected TokenType=access, got %s", claims.TokenType)
	}
	if claims.Issuer != issuer {
		t.Errorf("expected Issuer=%s, got %s", issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("jti should not be empty")
	}

	ttl := time.Until(expiresAt)
	if ttl < 3*time.Hour+59*time.Minute || ttl > 4*time.Hour {
		t.Errorf("expected ttl of about 4h, got %v", ttl)
	}
}

func TestGenerateAccessToken_UniqueJTI(t *testing.T) {
	m := newTestManager()

	t1, _, _ := m.GenerateAccessToken(1, "a")
	t2, _, _ := m.GenerateAccessToken(1, "a")
	c1, _ := m.ParseToken(t1)
	c2, _ := m.ParseToken(t2)
	if c1.ID == c2.ID {
		t.Error("each token should carry its own jti")
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	m := newTestManager()

	_, err := m.ParseToken("invalid.token.string")
	if err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "different-secret-key",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, _, _ := m1.GenerateAccessToken(1, "admin")
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := newTestManager()

	claims := Claims{
		UserID:    1,
		Username:  "admin",
		TokenType: "access",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 1 * time.Millisecond,
	})

	token, _, _ := m.GenerateAccessToken(1, "admin")
	time.Sleep(10 * time.Millisecond)

	_, err := m.ParseToken(token)
	if err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
