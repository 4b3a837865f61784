package bootstrap

import (
	"log/slog"

	"academy-api/internal/infra/mailer"
	"academy-api/internal/infra/mailtmpl"
	"academy-api/internal/pkg/config"
	"academy-api/internal/usecase/commands"

	"go.uber.org/fx"
)

var MailModule = fx.Module("mail",
	fx.Provide(
		NewMailer,
		fx.Annotate(
			mailtmpl.NewRenderer,
			fx.As(new(commands.MailRenderer)),
		),
	),
)

func NewMailer(cfg config.Config, logger *slog.Logger) mailer.Mailer {
	return mailer.NewMailer(cfg.Mail, logger)
}
