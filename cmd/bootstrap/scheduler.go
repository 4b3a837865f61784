package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/infra/mailer"
	"academy-api/internal/pkg/clock"
	"academy-api/internal/pkg/config"
	"academy-api/internal/usecase/commands"

	"go.uber.org/fx"
)

// SchedulerModule runs the two periodic jobs: the lesson reminder sweep and
// the mail outbox dispatcher.
var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewSweeper,
		NewMailDispatcher,
	),
	fx.Invoke(
		StartReminderSweeper,
		StartMailDispatcher,
	),
)

func NewSweeper(
	gateway commands.CalendarGateway,
	profiles commands.ProfileRepository,
	outbox commands.OutboxRepository,
	renderer commands.MailRenderer,
	calendars lesson.Calendars,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *commands.Sweeper {
	return commands.NewSweeper(
		gateway, profiles, outbox, renderer, calendars, clk,
		cfg.Reminder.Lookahead, cfg.Mail.AdminAddress, logger,
	)
}

func NewMailDispatcher(outbox mailer.OutboxSource, m mailer.Mailer, cfg config.Config, logger *slog.Logger) *mailer.Dispatcher {
	return mailer.NewDispatcher(outbox, m, cfg.Mail.DispatchBatch, logger)
}

func StartReminderSweeper(lc fx.Lifecycle, sweeper *commands.Sweeper, cfg config.Config, logger *slog.Logger) {
	runPeriodic(lc, "reminder sweep", cfg.Reminder.Interval, logger, sweeper.RunOnce)
}

func StartMailDispatcher(lc fx.Lifecycle, dispatcher *mailer.Dispatcher, cfg config.Config, logger *slog.Logger) {
	runPeriodic(lc, "mail dispatch", cfg.Mail.DispatchInterval, logger, dispatcher.RunOnce)
}

func runPeriodic(lc fx.Lifecycle, name string, interval time.Duration, logger *slog.Logger, run func(context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting periodic job", "job", name, "interval", interval)
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if err := run(ctx); err != nil {
							logger.Error("periodic job failed", "job", name, "error", err)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
