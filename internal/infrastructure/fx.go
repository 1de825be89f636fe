// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	httpDelivery "github.com/tilontare9353-art/Telagram-bot/internal/delivery/http"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/database"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/http"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/logger"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/metrics"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/telegram"
	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/ytdlp"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	http.Module,
	httpDelivery.Module,
	database.Module,
	ytdlp.Module,
	telegram.Module,
)
