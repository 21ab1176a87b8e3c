package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "researcher1", "RESEARCHER", "test-secret", "quant", time.Hour, nil)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "researcher1" || claims.Role != "RESEARCHER" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "quant" {
		t.Errorf("issuer = %q, want quant", claims.Issuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "u", "CLIENT", "secret-a", "quant", time.Hour, nil)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ParseToken(token, "secret-b"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(1, "u", "CLIENT", "secret", "quant", -time.Minute, nil)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ParseToken(token, "secret"); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenMalformed(t *testing.T) {
	if _, err := ParseToken("not-a-token", "secret"); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed, got %v", err)
	}
}
