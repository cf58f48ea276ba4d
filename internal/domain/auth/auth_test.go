package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}

	if _, err := HashPassword("short"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(Claims{UserID: "u1", Email: "a@example.com", Role: "manager"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@example.com" || claims.Role != "manager" || claims.Subject != "u1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	subject, err := issuer.VerifyToken(token)
	if err != nil || subject != "u1" {
		t.Fatalf("expected subject u1, got %q (%v)", subject, err)
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	valid, err := issuer.Issue(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	expiredIssuer := NewIssuer("test-secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("none token error: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "not-a-jwt"},
		{name: "wrong secret", token: mustIssue(t, NewIssuer("other-secret", time.Hour))},
		{name: "expired", token: expired},
		{name: "unsigned", token: noneToken},
		{name: "tampered", token: valid + "x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := issuer.VerifyToken(tc.token); err == nil {
				t.Fatal("expected token to be rejected")
			}
		})
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	if _, err := NewIssuer("s", time.Hour).Issue(Claims{}); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":      "abc",
		"bearer abc":      "abc",
		"Basic abc":       "",
		"Bearer":          "",
		"":                "",
		"Bearer a b":      "",
		"  Bearer   xyz ": "xyz",
	}
	for header, want := range cases {
		if got := BearerToken(header); got != want {
			t.Fatalf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

type credentialMap map[string]Credentials

func (m credentialMap) FindCredentials(_ context.Context, email string) (Credentials, error) {
	creds, ok := m[email]
	if !ok {
		return Credentials{}, ErrNoAccount
	}
	return creds, nil
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	issuer := NewIssuer("test-secret", time.Hour)
	svc := NewService(credentialMap{
		"a@example.com": {UserID: "u1", Email: "a@example.com", Role: "user", PasswordHash: hash},
	}, issuer)

	token, creds, err := svc.Login(context.Background(), " A@example.com ", "Passw0rd")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if creds.UserID != "u1" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	if subject, err := issuer.VerifyToken(token); err != nil || subject != "u1" {
		t.Fatalf("issued token invalid: %q %v", subject, err)
	}

	for _, attempt := range [][2]string{{"a@example.com", "wrong"}, {"b@example.com", "Passw0rd"}, {"", ""}} {
		if _, _, err := svc.Login(context.Background(), attempt[0], attempt[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials for %v, got %v", attempt, err)
		}
	}
}

func mustIssue(t *testing.T, issuer *Issuer) string {
	t.Helper()
	token, err := issuer.Issue(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}
