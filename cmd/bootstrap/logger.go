package bootstrap

import (
	"log/slog"

	"proximity-pay/internal/handler/middleware"
	"proximity-pay/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger builds the application logger from LOG_* settings. It is also
// installed as the slog default.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
