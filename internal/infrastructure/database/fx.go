package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/tilontare9353-art/Telagram-bot/config"
	httpDelivery "github.com/tilontare9353-art/Telagram-bot/internal/delivery/http"
)

// Module provides the optional database connection.
// When DATABASE_ENABLED is false the provided *gorm.DB is nil.
var Module = fx.Module("database",
	fx.Provide(NewPostgresDBWithLifecycle),
	fx.Provide(httpDelivery.AsHealthChecker(NewHealthChecker)),
)

// NewPostgresDBWithLifecycle connects when enabled and closes the pool on stop
func NewPostgresDBWithLifecycle(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Database disabled, delivery history will not be stored")
		return nil, nil
	}

	db, err := NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				logger.Error().Err(err).Msg("Failed to get underlying sql.DB")
				return err
			}
			logger.Info().Msg("Closing database connection")
			return sqlDB.Close()
		},
	})

	logger.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("Database connected")

	return db, nil
}
