package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/shopfront-backend/api/middleware"
	"github.com/angelmondragon/shopfront-backend/api/responses"
	"github.com/angelmondragon/shopfront-backend/api/validators"
	"github.com/angelmondragon/shopfront-backend/internal/auth"
	"github.com/angelmondragon/shopfront-backend/internal/users"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

type sessionIssuer interface {
	Create(ctx context.Context, identity string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
	TTL() time.Duration
}

type githubFlow interface {
	AuthCodeURL(ctx context.Context) (string, error)
	Exchange(ctx context.Context, state, code string) (auth.Profile, error)
}

// SessionDeps groups what the session endpoints need.
type SessionDeps struct {
	Auth     auth.Service
	Sessions sessionIssuer
	// GitHub is nil when OAuth credentials are not configured.
	GitHub githubFlow
	JWT    config.JWTConfig
	Cookie config.SessionConfig
	Logger *logger.Logger
}

type sessionResponse struct {
	User      *users.UserDTO `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Register creates a local account and signs it in.
func Register(deps SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.RegisterRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		identity, err := deps.Auth.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		issueSession(w, r, deps, identity, http.StatusCreated)
	}
}

// Login verifies local credentials and starts a session.
func Login(deps SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		identity, err := deps.Auth.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		issueSession(w, r, deps, identity, http.StatusOK)
	}
}

// Logout revokes the current session and clears the cookie.
func Logout(deps SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}
		if err := deps.Sessions.Revoke(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
			return
		}

		http.SetCookie(w, sessionCookie(deps.Cookie, "", -1))
		deps.Logger.Info(r.Context(), "session.revoked")
		responses.WriteMessage(w, http.StatusOK, "logged out")
	}
}

// Current returns the identity bound to the request.
func Current(deps SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		responses.WriteSuccess(w, identity)
	}
}

// GitHubLogin redirects to the GitHub consent screen.
func GitHubLogin(deps SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.GitHub == nil {
			responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, auth.ErrOAuthDisabled, "github login unavailable"))
			return
		}
		target, err := deps.GitHub.AuthCodeURL(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// GitHubCallback completes the OAuth flow and starts a session.
func GitHubCallback(deps SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.GitHub == nil {
			responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, auth.ErrOAuthDisabled, "github login unavailable"))
			return
		}
		query := r.URL.Query()
		if denied := strings.TrimSpace(query.Get("error")); denied != "" {
			responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "github authorization denied").
				WithDetails(map[string]string{"error": denied}))
			return
		}

		profile, err := deps.GitHub.Exchange(r.Context(), query.Get("state"), query.Get("code"))
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		identity, err := deps.Auth.OAuthLogin(r.Context(), profile)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		issueSession(w, r, deps, identity, http.StatusOK)
	}
}

func issueSession(w http.ResponseWriter, r *http.Request, deps SessionDeps, identity *users.UserDTO, status int) {
	serialized := deps.Auth.Serialize(identity)
	sessionID, err := deps.Sessions.Create(r.Context(), serialized)
	if err != nil {
		responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session"))
		return
	}

	now := time.Now()
	token, err := pkgauth.MintAccessToken(deps.JWT, now, pkgauth.AccessTokenPayload{
		UserID:    serialized,
		Role:      identity.Role,
		SessionID: sessionID,
	})
	if err != nil {
		responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token"))
		return
	}

	ttl := deps.Sessions.TTL()
	http.SetCookie(w, sessionCookie(deps.Cookie, token, int(ttl.Seconds())))
	w.Header().Set(middleware.TokenHeader, token)

	ctx := deps.Logger.WithUserID(r.Context(), identity.ID)
	ctx = deps.Logger.WithSessionID(ctx, sessionID)
	deps.Logger.Info(ctx, "session.issued")

	expiresAt := now.Add(deps.JWT.Expiration())
	if ttl < deps.JWT.Expiration() {
		expiresAt = now.Add(ttl)
	}
	responses.WriteSuccessStatus(w, status, sessionResponse{
		User:      identity,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	})
}

func sessionCookie(cfg config.SessionConfig, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
