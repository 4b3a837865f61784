package commands

import (
	"context"

	"academy-api/internal/domain/billing"
	"academy-api/internal/domain/lesson"
	"academy-api/internal/domain/mail"
	"academy-api/internal/domain/profile"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v79"
	"google.golang.org/api/calendar/v3"
)

// CalendarGateway is the write-side calendar surface. Insert and Update
// return the upstream's full event representation, which is passed through to
// the caller unchanged.
type CalendarGateway interface {
	Insert(ctx context.Context, calendarID string, in lesson.WriteInput) (*calendar.Event, error)
	Update(ctx context.Context, calendarID, eventID string, in lesson.WriteInput) (*calendar.Event, error)
	Get(ctx context.Context, calendarID, eventID string) (*lesson.Snapshot, error)
	List(ctx context.Context, calendarID string, q lesson.ListQuery) ([]*lesson.Snapshot, error)
	Delete(ctx context.Context, calendarID, eventID string) error
	MarkReminderSent(ctx context.Context, calendarID, eventID string) error
}

// BillingGateway is the payment-platform surface used by the webhook
// classifier and the subscription update handler.
type BillingGateway interface {
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
	FindOneTimePrice(ctx context.Context, lookupKey string) (string, error)
	CreateInvoiceItem(ctx context.Context, customerID, subscriptionID, priceID, couponID string) error
	CreateInvoice(ctx context.Context, customerID, subscriptionID string) error
	GetCustomerEmail(ctx context.Context, customerID string) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
	UpdateSubscriptionItems(ctx context.Context, subscriptionID string, changes []billing.ItemChange) (*stripe.Subscription, error)
}

type ProfileRepository interface {
	FindStudent(ctx context.Context, id uuid.UUID) (*profile.Student, error)
	FindTeacher(ctx context.Context, id uuid.UUID) (*profile.Teacher, error)
	AddStudentPoints(ctx context.Context, id uuid.UUID, delta int) (int, error)
	BackfillLegacyIDs(ctx context.Context) (int64, error)
}

type UserRepository interface {
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg mail.Message) error
}

// ProcessedEventRepository dedupes webhook deliveries by event id.
type ProcessedEventRepository interface {
	TryInsert(ctx context.Context, eventID, eventType string) (bool, error)
}

type MailRenderer interface {
	Welcome(data mail.WelcomeData) (mail.Content, error)
	LessonNotice(data mail.LessonNoticeData) (mail.Content, error)
	LessonReminder(data mail.LessonReminderData) (mail.Content, error)
}
