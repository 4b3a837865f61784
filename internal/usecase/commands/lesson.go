package commands

import (
	"context"
	"log/slog"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/errs"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/calendar/v3"
)

var (
	ErrLessonNotFound          = errs.New("lesson not found")
	ErrInvalidStudentID        = errs.New("invalid student id in lesson metadata")
	ErrCalendarOperationFailed = errs.New("calendar operation failed")
)

type CreateLessonParams struct {
	Input           lesson.WriteInput
	UseTestCalendar bool
}

type UpdateLessonParams struct {
	EventID         string
	Input           lesson.WriteInput
	UseTestCalendar bool
}

type DeleteLessonParams struct {
	EventID         string
	EventType       lesson.EventType
	UseTestCalendar bool
}

type LessonCommands interface {
	Create(ctx context.Context, p CreateLessonParams) (*calendar.Event, error)
	Update(ctx context.Context, p UpdateLessonParams) (*calendar.Event, error)
	Delete(ctx context.Context, p DeleteLessonParams) error
}

type lessonUseCaseImpl struct {
	gateway   CalendarGateway
	profiles  ProfileRepository
	calendars lesson.Calendars
	logger    *slog.Logger
}

func NewLessonCommands(
	gateway CalendarGateway,
	profiles ProfileRepository,
	calendars lesson.Calendars,
	logger *slog.Logger,
) LessonCommands {
	return &lessonUseCaseImpl{
		gateway:   gateway,
		profiles:  profiles,
		calendars: calendars,
		logger:    logger,
	}
}

func (u *lessonUseCaseImpl) Create(ctx context.Context, p CreateLessonParams) (*calendar.Event, error) {
	calendarID := u.calendars.Select(p.Input.EventType, p.UseTestCalendar)

	created, err := u.gateway.Insert(ctx, calendarID, p.Input)
	if err != nil {
		return nil, errs.Mark(err, ErrCalendarOperationFailed)
	}
	return created, nil
}

func (u *lessonUseCaseImpl) Update(ctx context.Context, p UpdateLessonParams) (*calendar.Event, error) {
	calendarID := u.calendars.Select(p.Input.EventType, p.UseTestCalendar)

	updated, err := u.gateway.Update(ctx, calendarID, p.EventID, p.Input)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, errs.Mark(err, ErrCalendarOperationFailed)
	}
	return updated, nil
}

// Delete removes a lesson and refunds its point cost to every listed student.
// The read (for the refund) and the deletion run concurrently and both must
// succeed; deletion itself returns no event fields, which is why the read is
// needed at all.
func (u *lessonUseCaseImpl) Delete(ctx context.Context, p DeleteLessonParams) error {
	calendarID := u.calendars.Select(p.EventType, p.UseTestCalendar)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := u.gateway.Get(gctx, calendarID, p.EventID)
		if err != nil {
			return err
		}
		return u.maybeRefundPoints(gctx, snap)
	})
	g.Go(func() error {
		return u.gateway.Delete(gctx, calendarID, p.EventID)
	})

	if err := g.Wait(); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrLessonNotFound
		}
		return errs.Mark(err, ErrCalendarOperationFailed)
	}
	return nil
}

// maybeRefundPoints credits the lesson's point cost back to each listed
// student. Refunds for deleted recurring series are not supported; neither is
// reconstructing discounts applied at purchase time — the full cost is
// refunded as-is.
func (u *lessonUseCaseImpl) maybeRefundPoints(ctx context.Context, snap *lesson.Snapshot) error {
	if snap.Meta.NumPoints == 0 || len(snap.Meta.StudentIDs) == 0 {
		return nil
	}

	if snap.IsRecurring() {
		u.logger.Warn("point refund for recurring series deletion is not supported",
			"event_id", snap.ID)
		return nil
	}

	for _, raw := range snap.Meta.StudentIDs {
		studentID, err := uuid.Parse(raw)
		if err != nil {
			return errs.Mark(errs.Wrap(err, "bad student id "+raw), ErrInvalidStudentID)
		}
		balance, err := u.profiles.AddStudentPoints(ctx, studentID, snap.Meta.NumPoints)
		if err != nil {
			return err
		}
		u.logger.Info("refunded lesson points",
			"event_id", snap.ID, "student_id", studentID, "points", snap.Meta.NumPoints, "balance", balance)
	}
	return nil
}
