package commands

import (
	"context"
	"log/slog"
	"time"

	"academy-api/internal/domain/mail"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrStudentNotFound = errs.New("student profile not found")

// Admin inbox time zone; the admin copy of every attendee mail renders times
// in it in addition to each attendee's own zone.
const adminTimeZone = "Asia/Tokyo"

type NotifyAttendeesParams struct {
	TeacherID   *uuid.UUID
	StudentID   uuid.UUID
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Cancel      bool
}

type NotificationCommands interface {
	NotifyAttendees(ctx context.Context, p NotifyAttendeesParams) error
}

type notificationUseCaseImpl struct {
	profiles     ProfileRepository
	outbox       OutboxRepository
	renderer     MailRenderer
	adminAddress string
	logger       *slog.Logger
}

func NewNotificationCommands(
	profiles ProfileRepository,
	outbox OutboxRepository,
	renderer MailRenderer,
	adminAddress string,
	logger *slog.Logger,
) NotificationCommands {
	return &notificationUseCaseImpl{
		profiles:     profiles,
		outbox:       outbox,
		renderer:     renderer,
		adminAddress: adminAddress,
		logger:       logger,
	}
}

// NotifyAttendees enqueues the booking confirmation or cancellation mail for
// one lesson. A missing teacher just narrows the recipient list; the student
// is required because the mail names them.
func (u *notificationUseCaseImpl) NotifyAttendees(ctx context.Context, p NotifyAttendeesParams) error {
	recipients := []string{u.adminAddress}
	zones := []string{adminTimeZone}

	if p.TeacherID != nil {
		teacher, err := u.profiles.FindTeacher(ctx, *p.TeacherID)
		switch {
		case err == nil:
			recipients = append(recipients, teacher.Email)
			zones = append(zones, teacher.TimeZone)
		case infra.IsKind(err, infra.KindNotFound):
			u.logger.Warn("teacher profile not found for notification", "teacher_id", *p.TeacherID)
		default:
			return err
		}
	}

	student, err := u.profiles.FindStudent(ctx, p.StudentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	recipients = append(recipients, student.Email)
	zones = append(zones, student.TimeZone)

	content, err := u.renderer.LessonNotice(mail.LessonNoticeData{
		Summary:     p.Summary,
		Description: p.Description,
		StudentName: student.FullName(),
		Cancelled:   p.Cancel,
		Starts:      mail.RenderZoned(p.StartTime, zones),
		Ends:        mail.RenderZoned(p.EndTime, zones),
	})
	if err != nil {
		return err
	}

	return u.outbox.Enqueue(ctx, mail.Message{Recipients: recipients, Content: content})
}
