package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shopfront-backend/api/controllers"
	"github.com/angelmondragon/shopfront-backend/api/middleware"
	"github.com/angelmondragon/shopfront-backend/internal/auth"
	"github.com/angelmondragon/shopfront-backend/internal/carts"
	"github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
)

// cacheStore is the redis surface the request pipeline needs.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	IdempotencyKey(scope, id string) string
	RateLimitKey(scope string) string
}

type sessionManager interface {
	Create(ctx context.Context, identity string) (string, error)
	Resolve(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
	TTL() time.Duration
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	store cacheStore,
	sessions sessionManager,
	authService auth.Service,
	github *auth.GitHubProvider,
	productService products.Service,
	cartService carts.Service,
	readiness ...controllers.ReadinessCheck,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(nil)
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Session(cfg.JWT, cfg.Session.CookieName, sessions, authService, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	sessionDeps := controllers.SessionDeps{
		Auth:     authService,
		Sessions: sessions,
		JWT:      cfg.JWT,
		Cookie:   cfg.Session,
		Logger:   logg,
	}
	if github != nil {
		sessionDeps.GitHub = github
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(store, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/{pid}", controllers.GetProduct(productService, logg))
			r.Put("/{pid}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{pid}", controllers.DeleteProduct(productService, logg))
		})

		r.Route("/sessions", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit), store, logg)).
				Post("/register", controllers.Register(sessionDeps))
			r.With(middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), store, logg)).
				Post("/login", controllers.Login(sessionDeps))
			r.Get("/github", controllers.GitHubLogin(sessionDeps))
			r.Get("/githubcallback", controllers.GitHubCallback(sessionDeps))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireIdentity(logg))
				r.Post("/logout", controllers.Logout(sessionDeps))
				r.Get("/current", controllers.Current(sessionDeps))
			})
		})

		r.With(middleware.RequireIdentity(logg)).Get("/carts/{cid}", controllers.GetCart(cartService, logg))
	})

	return r
}
