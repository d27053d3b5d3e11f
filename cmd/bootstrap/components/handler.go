package components

import (
	"proximity-pay/internal/handler"
	"proximity-pay/internal/handler/api"
	"proximity-pay/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewEngine,
		api.NewAuthHandler,
		api.NewSessionHandler,
		api.NewWalletHandler,
		handler.NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

// NewEngine returns a bare engine; NewRouter installs every middleware.
func NewEngine() *gin.Engine {
	return gin.New()
}
