package components

import (
	"log/slog"

	"academy-api/internal/pkg/clock"
	"academy-api/internal/pkg/config"
	"academy-api/internal/usecase/commands"
	"academy-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewLessonCommands,
		NewBillingCommands,
		commands.NewSubscriptionCommands,
		NewNotificationCommands,
		commands.NewAccountCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewLessonQueries,
	),
)

func NewBillingCommands(
	gateway commands.BillingGateway,
	profiles commands.ProfileRepository,
	processed commands.ProcessedEventRepository,
	outbox commands.OutboxRepository,
	renderer commands.MailRenderer,
	cfg config.Config,
	logger *slog.Logger,
) commands.BillingCommands {
	return commands.NewBillingCommands(gateway, profiles, processed, outbox, renderer, cfg.Billing, cfg.Mail, logger)
}

func NewNotificationCommands(
	profiles commands.ProfileRepository,
	outbox commands.OutboxRepository,
	renderer commands.MailRenderer,
	cfg config.Config,
	logger *slog.Logger,
) commands.NotificationCommands {
	return commands.NewNotificationCommands(profiles, outbox, renderer, cfg.Mail.AdminAddress, logger)
}
