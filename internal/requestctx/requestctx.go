package requestctx

import (
	"context"

	"tikidan/internal/domain/rbac"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	userKey      ctxKey = "user"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithUser stores the authenticated user resolved for this request.
func WithUser(ctx context.Context, user rbac.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func GetUser(ctx context.Context) (rbac.User, bool) {
	user, ok := ctx.Value(userKey).(rbac.User)
	return user, ok
}
