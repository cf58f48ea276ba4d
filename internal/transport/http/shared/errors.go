package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tikidan/internal/domain/auth"
	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
	"tikidan/internal/requestctx"
	"tikidan/internal/transport/http/api"
)

// WriteError maps a domain error onto the response envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	switch {
	case rbac.IsValidation(err):
		FailValidation(w, requestID, rbac.IssuesOf(err))
	case rbac.IsUnauthenticated(err):
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
	case rbac.IsForbidden(err):
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, users.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
	case errors.Is(err, users.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", err.Error(), requestID)
	case errors.Is(err, users.ErrEmployeeIDTaken):
		api.Fail(w, http.StatusConflict, "employee_id_taken", err.Error(), requestID)
	default:
		slog.Error("request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

// DecodeJSON reads the body into dst and writes the failure response itself
// when the body is unusable.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	requestID := requestctx.GetRequestID(r.Context())
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		return false
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
	return false
}
