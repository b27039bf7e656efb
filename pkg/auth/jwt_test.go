package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerify(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	signed, err := tokens.Sign("64c8e9f2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	userID, issuedAt, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "64c8e9f2a1b2c3d4e5f60718" {
		t.Errorf("userID = %q, want the signed subject", userID)
	}
	if issuedAt.IsZero() {
		t.Errorf("issuedAt must be populated")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)

	signed, err := tokens.Sign("64c8e9f2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	_, _, err = tokens.Verify(signed)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewTokenService("secret-a", time.Hour).Sign("64c8e9f2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	_, _, err = NewTokenService("secret-b", time.Hour).Verify(signed)
	if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenSignatureInvalid", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	_, _, err := tokens.Verify("not.a.token")
	if err == nil {
		t.Errorf("Verify() accepted garbage input")
	}
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "pass1234" {
		t.Fatalf("password stored in plain text")
	}

	if !CheckPassword(hash, "pass1234") {
		t.Errorf("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Errorf("CheckPassword accepted a wrong password")
	}
}
