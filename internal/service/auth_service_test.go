package service

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef-test-secret"

func newTestAuth(t *testing.T, password string) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return NewAuthService(AuthConfig{
		Username:     "operator",
		PasswordHash: string(hash),
		Secret:       testSecret,
		TokenTTL:     time.Hour,
	})
}

func TestAuthService_GenerateAndParseToken(t *testing.T) {
	svc := newTestAuth(t, "s3cr3t")

	token, err := svc.GenerateToken("operator", "s3cr3t")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	user, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if user != "operator" {
		t.Fatalf("subject = %q, want operator", user)
	}
}

func TestAuthService_GenerateToken_Errors(t *testing.T) {
	svc := newTestAuth(t, "s3cr3t")

	if _, err := svc.GenerateToken("mallory", "s3cr3t"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user err = %v, want ErrUserNotFound", err)
	}
	if _, err := svc.GenerateToken("operator", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("wrong password err = %v, want ErrInvalidPassword", err)
	}

	unconfigured := NewAuthService(AuthConfig{Secret: testSecret})
	if _, err := unconfigured.GenerateToken("", ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unconfigured err = %v, want ErrUserNotFound", err)
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	svc := newTestAuth(t, "pw")
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken("operator", "pw")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestAuthService_ParseToken_WrongSecret(t *testing.T) {
	svc := newTestAuth(t, "pw")
	token, err := svc.GenerateToken("operator", "pw")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewAuthService(AuthConfig{Username: "operator", Secret: "another-secret-entirely"})
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestAuthService_ParseToken_RejectsNonHMAC(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa: %v", err)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newTestAuth(t, "pw").ParseToken(signed); err == nil {
		t.Fatal("expected RS256 token to be rejected")
	}
}

func TestAuthService_ParseToken_WrongSubject(t *testing.T) {
	svc := newTestAuth(t, "pw")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ParseToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if verifyPassword(hash, "correct horse") != nil {
		t.Fatal("hash does not verify")
	}
	if _, err := HashPassword("   "); err == nil {
		t.Fatal("expected empty password error")
	}
}
