// Package logger contains logger infrastructure
package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/tilontare9353-art/Telagram-bot/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

// provideLogger creates logger from config and tags it with the service name
func provideLogger(logCfg *config.LoggingConfig, svcCfg *config.ServiceConfig) zerolog.Logger {
	return New(logCfg.Level).With().Str("service", svcCfg.Name).Logger()
}
