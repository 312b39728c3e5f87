package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

// MaybeRunDev prepares the relational schema on startup when the auto-migrate flag is set.
// Postgres runs the goose migrations in dev only; SQLite always uses gorm AutoMigrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Driver()})
	switch client.Driver() {
	case config.DBDriverSQLite:
		logg.Info(ctx, "migrate.sqlite.auto_migrate")
		return client.AutoMigrate(ctx)
	case config.DBDriverPostgres:
		if !cfg.App.IsDev() {
			return nil
		}
	default:
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "dir", DefaultDir)
	logg.Info(ctx, "migrate.goose.start")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.goose.complete")
	return nil
}
