package bootstrap

import (
	"log/slog"

	"academy-api/internal/infra/stripegw"
	"academy-api/internal/pkg/config"
	"academy-api/internal/usecase/commands"

	"go.uber.org/fx"
)

var BillingModule = fx.Module("billing",
	fx.Provide(
		fx.Annotate(
			NewBillingGateway,
			fx.As(new(commands.BillingGateway)),
		),
	),
)

func NewBillingGateway(cfg config.Config, logger *slog.Logger) *stripegw.Gateway {
	return stripegw.New(cfg.Billing, logger)
}
