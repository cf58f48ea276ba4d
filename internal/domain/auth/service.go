package auth

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoAccount is returned by a CredentialStore for an unknown email.
var ErrNoAccount = errors.New("no account for email")

type Credentials struct {
	UserID       string
	Email        string
	Role         string
	PasswordHash string
}

type CredentialStore interface {
	FindCredentials(ctx context.Context, email string) (Credentials, error)
}

type Service struct {
	store  CredentialStore
	issuer *Issuer
}

func NewService(store CredentialStore, issuer *Issuer) *Service {
	return &Service{store: store, issuer: issuer}
}

// Login checks a password and issues a session token for the account.
func (s *Service) Login(ctx context.Context, email, password string) (string, Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", Credentials{}, ErrInvalidCredentials
	}
	creds, err := s.store.FindCredentials(ctx, email)
	if errors.Is(err, ErrNoAccount) {
		return "", Credentials{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", Credentials{}, err
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return "", Credentials{}, ErrInvalidCredentials
	}
	token, err := s.Issue(creds)
	if err != nil {
		return "", Credentials{}, err
	}
	return token, creds, nil
}

// Issue signs a token for an already-authenticated account, e.g. right after
// registration.
func (s *Service) Issue(creds Credentials) (string, error) {
	return s.issuer.Issue(Claims{UserID: creds.UserID, Email: creds.Email, Role: creds.Role})
}
