// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Mode selects how updates reach the bot
type Mode string

const (
	ModePolling Mode = "polling"
	ModeWebhook Mode = "webhook"
)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot     *tgbot.Bot
	mode    Mode
	running atomic.Bool
	logger  zerolog.Logger
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token string, mode Mode, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{
		mode:   mode,
		logger: logger,
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(b.defaultHandler),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	logger.Info().Str("mode", string(mode)).Msg("Telegram bot created successfully")

	return b, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// Mode returns the update transport
func (b *Bot) Mode() Mode {
	return b.mode
}

// Start consumes updates until ctx is done (blocking call).
// In webhook mode updates arrive through WebhookHandler.
func (b *Bot) Start(ctx context.Context) error {
	b.running.Store(true)
	defer b.running.Store(false)

	b.logger.Info().Str("mode", string(b.mode)).Msg("Starting Telegram bot...")
	if b.mode == ModeWebhook {
		b.bot.StartWebhook(ctx)
	} else {
		b.bot.Start(ctx)
	}
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// SetWebhook registers url with Telegram and drops updates queued while offline
func (b *Bot) SetWebhook(ctx context.Context, url string) error {
	ok, err := b.bot.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:                url,
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	if !ok {
		return fmt.Errorf("telegram rejected webhook %s", url)
	}
	b.logger.Info().Str("url", url).Msg("Webhook set")
	return nil
}

// DeleteWebhook removes the webhook registration
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	if _, err := b.bot.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	b.logger.Info().Msg("Webhook deleted")
	return nil
}

// SetCommands publishes the command menu
func (b *Bot) SetCommands(ctx context.Context, commands []models.BotCommand) error {
	_, err := b.bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands})
	return err
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

// Name implements the health checker contract
func (b *Bot) Name() string {
	return "telegram"
}

// HealthCheck reports whether the update loop is running
func (b *Bot) HealthCheck(_ context.Context) error {
	if !b.running.Load() {
		return errors.New("update loop is not running")
	}
	return nil
}

// defaultHandler receives updates no route matched
func (b *Bot) defaultHandler(_ context.Context, _ *tgbot.Bot, update *models.Update) {
	b.logger.Debug().Int64("update_id", update.ID).Msg("Unhandled update ignored")
}
