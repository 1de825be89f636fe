package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/tilontare9353-art/Telagram-bot/config"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/session"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/metrics"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("media-workers",
	fx.Provide(providePool),
	fx.Provide(func(p *Pool) deps.WorkerPool { return p }),
	fx.Invoke(registerPoolLifecycle),
	fx.Invoke(registerSessionCleanupLifecycle),
)

func providePool(cfg *config.WorkersConfig, m *metrics.Metrics, logger zerolog.Logger) *Pool {
	return NewPool(cfg.MaxConcurrent, m, logger.With().Str("component", "worker-pool").Logger())
}

// registerPoolLifecycle stops the pool and waits for in-flight updates
func registerPoolLifecycle(lc fx.Lifecycle, pool *Pool, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info().Int("workers", pool.Size()).Msg("Worker pool ready")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return pool.Stop(ctx)
		},
	})
}

// registerSessionCleanupLifecycle runs the expired-selection sweeper
func registerSessionCleanupLifecycle(lc fx.Lifecycle, store *session.Store) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			store.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			store.Stop()
			return nil
		},
	})
}
