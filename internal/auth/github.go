package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// ErrOAuthDisabled is returned when GitHub credentials are not configured.
var ErrOAuthDisabled = errors.New("github oauth is not configured")

type stateStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	GetDel(ctx context.Context, key string) (string, error)
	OAuthStateKey(state string) string
}

// GitHubProvider drives the authorization-code flow against GitHub.
type GitHubProvider struct {
	oauth      *oauth2.Config
	states     stateStore
	stateTTL   time.Duration
	apiBaseURL string
}

// NewGitHubProvider builds the provider. States are single use and expire after cfg.StateTTL.
func NewGitHubProvider(cfg config.GitHubConfig, states stateStore) (*GitHubProvider, error) {
	if !cfg.Enabled() {
		return nil, ErrOAuthDisabled
	}
	if states == nil {
		return nil, fmt.Errorf("oauth state store is required")
	}
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		states:     states,
		stateTTL:   ttl,
		apiBaseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
	}, nil
}

// AuthCodeURL returns the GitHub consent URL carrying a freshly stored state.
func (p *GitHubProvider) AuthCodeURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	ok, err := p.states.SetNX(ctx, p.states.OAuthStateKey(state), "1", p.stateTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store oauth state")
	}
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "oauth state collision")
	}
	return p.oauth.AuthCodeURL(state), nil
}

// Exchange consumes the state, trades the code for a token and loads the GitHub profile.
func (p *GitHubProvider) Exchange(ctx context.Context, state, code string) (Profile, error) {
	state, code = strings.TrimSpace(state), strings.TrimSpace(code)
	if state == "" || code == "" {
		return Profile{}, noIdentity(pkgerrors.CodeUnauthorized, "missing oauth state or code")
	}
	if _, err := p.states.GetDel(ctx, p.states.OAuthStateKey(state)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return Profile{}, noIdentity(pkgerrors.CodeUnauthorized, "unknown or expired oauth state")
		}
		return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume oauth state")
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return Profile{}, noIdentity(pkgerrors.CodeUnauthorized, "github rejected the authorization code")
		}
		return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "exchange oauth code")
	}

	client := p.oauth.Client(ctx, token)
	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return Profile{}, err
	}

	profile := Profile{Email: user.Email, Name: user.Name, Login: user.Login}
	if profile.Email == "" {
		var emails []githubEmail
		if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
			return Profile{}, err
		}
		profile.Email = primaryEmail(emails)
	}
	return profile, nil
}

type githubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func primaryEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	return ""
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build github request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "github request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("github %s returned %d", path, resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode github response")
	}
	return nil
}
