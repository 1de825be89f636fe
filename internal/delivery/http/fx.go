package http

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/tilontare9353-art/Telagram-bot/internal/infrastructure/http/server"
)

// Module registers service-level HTTP routes
var Module = fx.Module("http-delivery",
	fx.Invoke(registerHealth),
)

// HealthCheckers collects every component annotated into the health group
type HealthCheckers struct {
	fx.In

	Checkers []HealthChecker `group:"health"`
}

// AsHealthChecker annotates a constructor so its result joins the health group
func AsHealthChecker(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(HealthChecker)),
		fx.ResultTags(`group:"health"`),
	)
}

func registerHealth(srv *server.Server, in HealthCheckers, logger zerolog.Logger) {
	h := NewHealthHandler(in.Checkers, logger.With().Str("component", "health").Logger())
	srv.Router.GET("/health", h.Handle)
}
