package telegram

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/tilontare9353-art/Telagram-bot/config"
	httpDelivery "github.com/tilontare9353-art/Telagram-bot/internal/delivery/http"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/http/server"
)

const webhookCallTimeout = 15 * time.Second

// Module provides Telegram bot for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(provideBot),
	fx.Provide(httpDelivery.AsHealthChecker(func(b *Bot) *Bot { return b })),
	fx.Invoke(registerLifecycle),
)

// provideBot creates Telegram bot from config
func provideBot(cfg *config.TelegramConfig, webhookCfg *config.WebhookConfig, logger zerolog.Logger) (*Bot, error) {
	mode := ModePolling
	if webhookCfg.Enabled {
		mode = ModeWebhook
	}
	return NewBot(cfg.BotToken, mode, logger.With().Str("component", "telegram").Logger())
}

// registerLifecycle registers bot lifecycle hooks.
// In webhook mode the update route is mounted on the shared HTTP server.
func registerLifecycle(
	lc fx.Lifecycle,
	bot *Bot,
	webhookCfg *config.WebhookConfig,
	srv *server.Server,
	logger zerolog.Logger,
) {
	if bot.Mode() == ModeWebhook {
		srv.RegisterHandlerFunc(http.MethodPost, webhookCfg.Path(), bot.Raw().WebhookHandler())
	}

	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Create a long-lived context for the bot
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			if bot.Mode() == ModeWebhook {
				callCtx, callCancel := context.WithTimeout(ctx, webhookCallTimeout)
				defer callCancel()
				if err := bot.SetWebhook(callCtx, webhookCfg.FullURL()); err != nil {
					logger.Error().Err(err).Msg("Webhook set error")
				}
			}

			// Start bot in a goroutine since it's a blocking call
			go func() {
				_ = bot.Start(ctx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if bot.Mode() == ModeWebhook {
				if err := bot.DeleteWebhook(ctx); err != nil {
					logger.Warn().Err(err).Msg("Failed to delete webhook")
				}
			}
			if cancel != nil {
				cancel()
			}
			return bot.Stop()
		},
	})
}
