package commands

import (
	"context"
	"log/slog"
	"time"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/domain/mail"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/clock"

	"github.com/google/uuid"
)

// Sweeper scans the upcoming window of the primary calendar and mails a
// reminder for every private lesson that has not been reminded yet, marking
// each event afterwards so the next pass skips it. The mark happens after the
// enqueue; a crash in between can remind twice.
type Sweeper struct {
	gateway      CalendarGateway
	profiles     ProfileRepository
	outbox       OutboxRepository
	renderer     MailRenderer
	calendars    lesson.Calendars
	clock        clock.Clock
	lookahead    time.Duration
	adminAddress string
	logger       *slog.Logger
}

func NewSweeper(
	gateway CalendarGateway,
	profiles ProfileRepository,
	outbox OutboxRepository,
	renderer MailRenderer,
	calendars lesson.Calendars,
	clk clock.Clock,
	lookahead time.Duration,
	adminAddress string,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		gateway:      gateway,
		profiles:     profiles,
		outbox:       outbox,
		renderer:     renderer,
		calendars:    calendars,
		clock:        clk,
		lookahead:    lookahead,
		adminAddress: adminAddress,
		logger:       logger,
	}
}

// RunOnce performs one sweep. Per-event failures are logged and skipped so
// one broken event cannot starve the rest of the window.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	from := s.clock.Now()
	to := from.Add(s.lookahead)

	events, err := s.gateway.List(ctx, s.calendars.Primary, lesson.ListQuery{
		From:         &from,
		To:           &to,
		SingleEvents: true,
	})
	if err != nil {
		return err
	}

	for _, ev := range events {
		if ev.Meta.EventType != lesson.EventTypePrivate || ev.ReminderSent {
			continue
		}
		if err := s.remind(ctx, ev); err != nil {
			s.logger.Error("failed to send lesson reminder", "event_id", ev.ID, "error", err)
		}
	}
	return nil
}

func (s *Sweeper) remind(ctx context.Context, ev *lesson.Snapshot) error {
	recipients := []string{s.adminAddress}
	zones := []string{adminTimeZone}

	if ev.Meta.TeacherID != "" {
		if teacherID, err := uuid.Parse(ev.Meta.TeacherID); err == nil {
			teacher, err := s.profiles.FindTeacher(ctx, teacherID)
			switch {
			case err == nil:
				recipients = append(recipients, teacher.Email)
				zones = append(zones, teacher.TimeZone)
			case infra.IsKind(err, infra.KindNotFound):
				s.logger.Warn("teacher profile not found for reminder", "event_id", ev.ID, "teacher_id", teacherID)
			default:
				return err
			}
		}
	}

	resolvedStudents := 0
	for _, raw := range ev.Meta.StudentIDs {
		studentID, err := uuid.Parse(raw)
		if err != nil {
			s.logger.Warn("bad student id on event", "event_id", ev.ID, "student_id", raw)
			continue
		}
		student, err := s.profiles.FindStudent(ctx, studentID)
		switch {
		case err == nil:
			recipients = append(recipients, student.Email)
			zones = append(zones, student.TimeZone)
			resolvedStudents++
		case infra.IsKind(err, infra.KindNotFound):
			s.logger.Warn("student profile not found for reminder", "event_id", ev.ID, "student_id", studentID)
		default:
			return err
		}
	}
	if resolvedStudents == 0 {
		return nil
	}

	content, err := s.renderer.LessonReminder(mail.LessonReminderData{
		Summary:     ev.Summary,
		Description: ev.Description,
		Starts:      mail.RenderZoned(ev.Start, zones),
		Ends:        mail.RenderZoned(ev.End, zones),
	})
	if err != nil {
		return err
	}

	if err := s.outbox.Enqueue(ctx, mail.Message{Recipients: recipients, Content: content}); err != nil {
		return err
	}
	return s.gateway.MarkReminderSent(ctx, s.calendars.Primary, ev.ID)
}
