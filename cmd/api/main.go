package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/shopfront-backend/api/controllers"
	"github.com/angelmondragon/shopfront-backend/api/routes"
	"github.com/angelmondragon/shopfront-backend/internal/auth"
	"github.com/angelmondragon/shopfront-backend/internal/carts"
	"github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/internal/users"
	"github.com/angelmondragon/shopfront-backend/pkg/auth/session"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/instance"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/migrate"
	pkgmongo "github.com/angelmondragon/shopfront-backend/pkg/mongo"
	"github.com/angelmondragon/shopfront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

type repositories struct {
	products products.Repository
	users    users.Repository
	carts    carts.Repository
	tx       auth.Transactor
	check    controllers.ReadinessCheck
	close    func() error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openStorage(ctx, cfg, logg)
	requireResource(ctx, logg, "storage", err)

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	defer func() {
		if err := multierr.Combine(redisClient.Close(), repos.close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	requireResource(ctx, logg, "session manager", err)

	productService, err := products.NewService(repos.products)
	requireResource(ctx, logg, "product service", err)

	cartService, err := carts.NewService(repos.carts)
	requireResource(ctx, logg, "cart service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:          repos.users,
		Carts:          cartService,
		PasswordConfig: cfg.Password,
		Logger:         logg,
		Transactor:     repos.tx,
	})
	requireResource(ctx, logg, "auth service", err)

	github, err := auth.NewGitHubProvider(cfg.GitHub, redisClient)
	switch {
	case errors.Is(err, auth.ErrOAuthDisabled):
		logg.Info(ctx, "github oauth disabled")
	case err != nil:
		requireResource(ctx, logg, "github oauth", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := routes.NewRouter(
		cfg,
		logg,
		registry,
		redisClient,
		sessionManager,
		authService,
		github,
		productService,
		cartService,
		repos.check,
		controllers.ReadinessCheck{Name: "redis", Pinger: redisClient},
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"storage":  cfg.DB.Driver,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}

// openStorage connects the configured backend and builds the repositories on top of it.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*repositories, error) {
	if cfg.DB.IsSQL() {
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(err, client.Close())
		}
		conn := client.DB()
		return &repositories{
			products: products.NewGormRepository(conn),
			users:    users.NewGormRepository(conn),
			carts:    carts.NewGormRepository(conn),
			tx:       auth.NewGormTransactor(client),
			check:    controllers.ReadinessCheck{Name: "database", Pinger: client},
			close:    client.Close,
		}, nil
	}

	client, err := pkgmongo.New(ctx, cfg.Mongo, logg)
	if err != nil {
		return nil, err
	}
	return &repositories{
		products: products.NewMongoRepository(client),
		users:    users.NewMongoRepository(client),
		carts:    carts.NewMongoRepository(client),
		check:    controllers.ReadinessCheck{Name: "mongo", Pinger: client},
		close:    client.Close,
	}, nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
