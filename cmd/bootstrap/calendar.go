package bootstrap

import (
	"context"
	"log/slog"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/infra/gcal"
	"academy-api/internal/pkg/config"
	"academy-api/internal/usecase/commands"
	"academy-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var CalendarModule = fx.Module("calendar",
	fx.Provide(
		fx.Annotate(
			NewCalendarGateway,
			fx.As(new(commands.CalendarGateway)),
			fx.As(new(queries.LessonReadStore)),
		),
		NewCalendars,
	),
)

func NewCalendarGateway(cfg config.Config, logger *slog.Logger) (*gcal.Gateway, error) {
	return gcal.New(context.Background(), cfg.Calendar, logger)
}

func NewCalendars(cfg config.Config) lesson.Calendars {
	return lesson.Calendars{
		Free:      cfg.Calendar.FreeCalendarID,
		Preschool: cfg.Calendar.PreschoolCalendarID,
		Private:   cfg.Calendar.PrivateCalendarID,
		Primary:   cfg.Calendar.PrimaryCalendarID,
		Test:      cfg.Calendar.TestCalendarID,
	}
}
