package util

import (
	"errors"
	"strings"
	"testing"
	"time"

	"edu_platform_backend/internal/model"
)

const testSecret = "unit-test-secret"

func testUser() *model.User {
	u := &model.User{
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  model.Student,
	}
	u.ID = 42
	return u
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}

	if claims.UserID != 42 || claims.Role != model.Student || claims.Email != "ada@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	_, err = ParseJWT(token, testSecret)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ParseJWT error = %v, want ErrTokenExpired", err)
	}
}

func TestJWTTamperedSignature(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	// Flip the last signature byte.
	last := token[len(token)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	_, err = ParseJWT(tampered, testSecret)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("ParseJWT error = %v, want ErrInvalidSignature", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	_, err = ParseJWT(token, "some-other-secret")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("ParseJWT error = %v, want ErrInvalidSignature", err)
	}
}

func TestJWTGarbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-token", strings.Repeat("x.", 3)} {
		if _, err := ParseJWT(tok, testSecret); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("ParseJWT(%q) error = %v, want ErrInvalidSignature", tok, err)
		}
	}
}
