package middleware

import (
	"log/slog"
	"net/http"

	"tikidan/internal/domain/rbac"
	"tikidan/internal/requestctx"
	"tikidan/internal/transport/http/api"
)

// CapabilityChecker is the fine-grained gate.
type CapabilityChecker interface {
	RequireCapability(user rbac.User, capability string) error
}

// RequireRole admits only users whose role is one of roles. It must run after
// Authenticate.
func RequireRole(rec DecisionRecorder, roles ...string) func(http.Handler) http.Handler {
	return guard("role", rec, func(user rbac.User) error {
		return rbac.RequireRole(user, roles...)
	})
}

// RequireCapability admits only users holding capability. It must run after
// Authenticate.
func RequireCapability(checker CapabilityChecker, rec DecisionRecorder, capability string) func(http.Handler) http.Handler {
	return guard("capability", rec, func(user rbac.User) error {
		return checker.RequireCapability(user, capability)
	})
}

func guard(gate string, rec DecisionRecorder, check func(rbac.User) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestctx.GetRequestID(r.Context())
			user, ok := requestctx.GetUser(r.Context())
			if !ok {
				record(rec, gate, outcomeUnauthenticated)
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
				return
			}
			if err := check(user); err != nil {
				record(rec, gate, outcomeForbidden)
				slog.Warn("access denied", "gate", gate, "userId", user.ID, "role", user.Role, "path", r.URL.Path, "reason", err.Error())
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
				return
			}
			record(rec, gate, outcomeAllowed)
			next.ServeHTTP(w, r)
		})
	}
}
