package components

import (
	"academy-api/internal/handler"
	"academy-api/internal/handler/api"
	"academy-api/internal/handler/middleware"
	"academy-api/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewLessonHandler,
		api.NewBillingHandler,
		api.NewSubscriptionHandler,
		api.NewUserHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthMiddleware(jwtService *jwt.Service) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtService)
}
