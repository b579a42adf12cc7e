package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tutor-scheduling-api/internal/auth"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := auth.MakeToken("u1", "TUTOR", secret)
	if err != nil {
		t.Fatal(err)
	}
	c, err := auth.ParseBearer("Bearer "+tok, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != "u1" || c.Role != "TUTOR" {
		t.Errorf("claims %+v", c)
	}
	if _, err := auth.ParseToken(tok, "other-secret"); err == nil {
		t.Error("token accepted with the wrong secret")
	}
}

func TestExpiredToken(t *testing.T) {
	c := auth.Claims{
		UserID: "u1",
		Role:   "STUDENT",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if _, err := auth.ParseToken(tok, secret); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestAlgorithmConfusion(t *testing.T) {
	c := auth.Claims{UserID: "u1", Role: "ADMIN"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ParseToken(tok, secret); err == nil {
		t.Fatal("unsigned token accepted")
	}
}

func TestParseBearerEmpty(t *testing.T) {
	for _, h := range []string{"", "Bearer "} {
		if _, err := auth.ParseBearer(h, secret); !errors.Is(err, auth.ErrBadToken) {
			t.Errorf("%q: got %v", h, err)
		}
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := auth.HashPassword("testpass123")
	if err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword(h, "testpass123") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(h, "wrongpass") {
		t.Error("wrong password accepted")
	}
}
