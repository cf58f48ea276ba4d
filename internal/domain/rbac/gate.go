package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrSubjectNotFound is returned by a UserLookup when the token's subject no
// longer exists.
var ErrSubjectNotFound = errors.New("subject not found")

// TokenVerifier checks a session token's signature and expiry and returns the
// user id it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// UserLookup fetches the current stored record for a user id.
type UserLookup interface {
	LookupUser(ctx context.Context, id string) (User, error)
}

// Gate admits or rejects requests. Every call re-reads the stored user, so a
// role change applies from the user's next request on.
type Gate struct {
	tokens   TokenVerifier
	users    UserLookup
	resolver *Resolver
}

func NewGate(tokens TokenVerifier, users UserLookup, resolver *Resolver) *Gate {
	return &Gate{tokens: tokens, users: users, resolver: resolver}
}

func (g *Gate) Resolver() *Resolver {
	return g.resolver
}

// RequireAuthenticated resolves a session token to the stored user. Missing,
// malformed, expired or forged tokens and vanished subjects are
// unauthenticated; lookup failures are returned as-is.
func (g *Gate) RequireAuthenticated(ctx context.Context, token string) (User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return User{}, Unauthenticated("missing session token", nil)
	}
	userID, err := g.tokens.VerifyToken(token)
	if err != nil {
		return User{}, Unauthenticated("invalid session token", err)
	}
	user, err := g.users.LookupUser(ctx, userID)
	if errors.Is(err, ErrSubjectNotFound) {
		return User{}, Unauthenticated("session subject no longer exists", err)
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup session user: %w", err)
	}
	return user, nil
}

// RequireRole is the coarse role-identity gate. Capability overrides play no
// part in it.
func RequireRole(user User, allowedRoles ...string) error {
	if slices.Contains(allowedRoles, user.Role) {
		return nil
	}
	return Forbidden(fmt.Sprintf("role %q is not permitted", user.Role))
}

// RequireCapability is the fine-grained gate. The user's role identity plays no
// part in it.
func (g *Gate) RequireCapability(user User, capability string) error {
	if g.resolver.HasCapability(user, capability) {
		return nil
	}
	return Forbidden(fmt.Sprintf("missing capability %q", capability))
}
