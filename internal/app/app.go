// Package app contains application bootstrap
package app

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/tilontare9353-art/Telagram-bot/config"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, http, database, yt-dlp, telegram bot)
		infrastructure.Module,

		// Domain (media download business logic)
		domain.Module,

		fx.WithLogger(func(logger zerolog.Logger) fxevent.Logger {
			return &fxevent.ConsoleLogger{W: logger.With().Str("component", "fx").Logger()}
		}),
	)
}
