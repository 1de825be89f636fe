package ytdlp

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/tilontare9353-art/Telagram-bot/config"
	httpDelivery "github.com/tilontare9353-art/Telagram-bot/internal/delivery/http"
)

// Module provides the yt-dlp runner for fx dependency injection
var Module = fx.Module("ytdlp",
	fx.Provide(provideRunner),
	fx.Provide(httpDelivery.AsHealthChecker(func(r *Runner) *Runner { return r })),
	fx.Invoke(logStartup),
)

func provideRunner(cfg *config.ExtractorConfig, logger zerolog.Logger) *Runner {
	return NewRunner(cfg, logger.With().Str("component", "yt-dlp").Logger())
}

// logStartup reports the cookies file and binary version once the app starts
func logStartup(lc fx.Lifecycle, r *Runner, cfg *config.ExtractorConfig, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var size int64
			info, err := os.Stat(cfg.CookiesPath)
			if err == nil {
				size = info.Size()
			}
			logger.Info().
				Str("path", cfg.CookiesPath).
				Bool("exists", err == nil).
				Int64("size", size).
				Bool("used", r.UsesCookies()).
				Msg("Cookies file")

			version, err := r.Version(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("yt-dlp is not available")
				return nil
			}
			logger.Info().Str("version", version).Msg("yt-dlp found")
			return nil
		},
	})
}
