package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"tikidan/internal/domain/auth"
	"tikidan/internal/domain/rbac"
	"tikidan/internal/requestctx"
	"tikidan/internal/transport/http/api"
)

// Authenticator resolves a bearer token to the current stored user.
type Authenticator interface {
	RequireAuthenticated(ctx context.Context, token string) (rbac.User, error)
}

// DecisionRecorder counts gate outcomes.
type DecisionRecorder interface {
	Decision(gate, outcome string)
}

const (
	outcomeAllowed         = "allowed"
	outcomeUnauthenticated = "unauthenticated"
	outcomeForbidden       = "forbidden"
	outcomeError           = "error"
)

func record(rec DecisionRecorder, gate, outcome string) {
	if rec != nil {
		rec.Decision(gate, outcome)
	}
}

// Authenticate rejects requests without a valid session with 401 and puts the
// freshly loaded user on the request context.
func Authenticate(gate Authenticator, rec DecisionRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestctx.GetRequestID(r.Context())
			user, err := gate.RequireAuthenticated(r.Context(), auth.BearerToken(r.Header.Get("Authorization")))
			if rbac.IsUnauthenticated(err) {
				record(rec, "authenticate", outcomeUnauthenticated)
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
				return
			}
			if err != nil {
				record(rec, "authenticate", outcomeError)
				slog.Error("authenticate failed", "requestId", requestID, "err", err)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
				return
			}
			record(rec, "authenticate", outcomeAllowed)
			next.ServeHTTP(w, r.WithContext(requestctx.WithUser(r.Context(), user)))
		})
	}
}
