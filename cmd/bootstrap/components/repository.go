package components

import (
	"academy-api/internal/infra/mailer"
	"academy-api/internal/infra/repo_impl"
	"academy-api/internal/usecase/commands"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewProfileRepository,
			fx.As(new(commands.ProfileRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewOutboxRepository,
			fx.As(new(commands.OutboxRepository)),
			fx.As(new(mailer.OutboxSource)),
		),
		fx.Annotate(
			repo_impl.NewBillingEventRepository,
			fx.As(new(commands.ProcessedEventRepository)),
		),
	),
)
