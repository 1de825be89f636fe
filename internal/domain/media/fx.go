// Package media contains the media download domain module
package media

import (
	"context"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/tilontare9353-art/Telagram-bot/config"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/consts"
	telegramDelivery "github.com/tilontare9353-art/Telagram-bot/internal/domain/media/delivery/telegram"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	kafkaRepo "github.com/tilontare9353-art/Telagram-bot/internal/domain/media/repository/kafka"
	postgresRepo "github.com/tilontare9353-art/Telagram-bot/internal/domain/media/repository/postgres"
	ytdlpRepo "github.com/tilontare9353-art/Telagram-bot/internal/domain/media/repository/ytdlp"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/ranking"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/session"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/usecase/buissines"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/workers"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/metrics"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/telegram"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/ytdlp"
)

const setCommandsTimeout = 15 * time.Second

// Module provides media domain components for fx dependency injection
var Module = fx.Module("media",
	// Repository
	fx.Provide(provideYtdlpClient),
	fx.Provide(
		func(c *ytdlpRepo.Client) deps.MetadataExtractor { return c },
		func(c *ytdlpRepo.Client) deps.MediaDownloader { return c },
	),
	fx.Provide(provideProducer),
	fx.Provide(provideDeliveryRepository),

	// Session and ranking
	fx.Provide(provideSessionStore),
	fx.Provide(func(s *session.Store) deps.SessionStore { return s }),
	fx.Provide(provideRanker),
	fx.Provide(func(m *metrics.Metrics) deps.MetricsRecorder { return m }),

	// UseCase
	fx.Provide(buissines.NewPipeline),
	fx.Provide(buissines.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Workers
	workers.Module,

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

func provideYtdlpClient(runner *ytdlp.Runner, logger zerolog.Logger) *ytdlpRepo.Client {
	return ytdlpRepo.NewClient(runner, logger.With().Str("component", "extractor").Logger())
}

// provideProducer creates the delivery event producer and closes it on stop
func provideProducer(lc fx.Lifecycle, cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (deps.DeliveryEventProducer, error) {
	producer, err := kafkaRepo.NewProducer(cfg, m, logger.With().Str("component", "kafka-producer").Logger())
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})
	return producer, nil
}

func provideDeliveryRepository(db *gorm.DB) deps.DeliveryRepository {
	return postgresRepo.NewDeliveryRepository(db)
}

func provideSessionStore(cfg *config.SessionConfig, logger zerolog.Logger) *session.Store {
	return session.NewStore(cfg.TTL, cfg.CleanupInterval, logger.With().Str("component", "sessions").Logger())
}

func provideRanker(cfg *config.MediaConfig) *ranking.Ranker {
	return ranking.NewRanker(cfg.MaxBytes())
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *buissines.UseCase, pool deps.WorkerPool, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, pool, bot.Raw(), logger.With().Str("component", "telegram-handlers").Logger())
}

// wireAndRegister resolves cyclic dependency, registers routes and the command menu
func wireAndRegister(
	lc fx.Lifecycle,
	uc *buissines.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
	logger zerolog.Logger,
) {
	// Handlers implements deps.TelegramSender interface
	// This resolves the cyclic dependency: UseCase -> TelegramSender <- Handlers -> UseCase
	uc.SetSender(handlers)

	router.RegisterRoutes(bot.Raw())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, setCommandsTimeout)
			defer cancel()

			if err := bot.SetCommands(callCtx, botCommands()); err != nil {
				logger.Warn().Err(err).Msg("Failed to set bot commands")
			}
			return nil
		},
	})
}

func botCommands() []models.BotCommand {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, c := range consts.AllCommands {
		commands = append(commands, models.BotCommand{Command: c.Name, Description: c.Description})
	}
	return commands
}
