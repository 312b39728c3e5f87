package middleware

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/internal/users"
)

type contextKey string

const (
	ctxIdentity  contextKey = "identity"
	ctxSessionID contextKey = "session_id"
)

// IdentityFromContext returns the authenticated user, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *users.UserDTO {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*users.UserDTO); ok {
		return v
	}
	return nil
}

// UserIDFromContext returns the authenticated user id or "".
func UserIDFromContext(ctx context.Context) string {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.ID
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects the authenticated user and its session into the context.
func WithIdentity(ctx context.Context, identity *users.UserDTO, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxIdentity, identity)
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
