package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/shopfront-backend/api/responses"
	"github.com/angelmondragon/shopfront-backend/internal/auth"
	"github.com/angelmondragon/shopfront-backend/internal/users"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/auth/session"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

type sessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (string, error)
}

type identityLoader interface {
	Deserialize(ctx context.Context, id string) (*users.UserDTO, error)
}

// Session attaches the caller's identity when the request carries a live session token.
// Missing, invalid or revoked tokens leave the request anonymous; RequireIdentity decides
// whether that is acceptable.
func Session(cfg config.JWTConfig, cookieName string, sessions sessionResolver, loader identityLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Debug(r.Context(), "session.token_rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			serialized, err := sessions.Resolve(r.Context(), claims.SessionID())
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session"))
				return
			}
			if serialized != claims.UserID() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := loader.Deserialize(r.Context(), serialized)
			if err != nil {
				if errors.Is(err, auth.ErrNoIdentity) {
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity, claims.SessionID())
			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.ID)
				ctx = logg.WithSessionID(ctx, claims.SessionID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()) == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request, cookieName string) string {
	if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
		if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
	}
	if raw := strings.TrimSpace(r.Header.Get(TokenHeader)); raw != "" {
		return raw
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return strings.TrimSpace(c.Value)
		}
	}
	return ""
}
