package mail

import (
	"time"

	"github.com/google/uuid"
)

// Content is a rendered mail body.
type Content struct {
	Subject string
	HTML    string
}

// Message is an outbound mail request: a recipient list plus rendered content.
// Enqueueing one is fire-and-forget for the caller; the dispatcher owns
// delivery.
type Message struct {
	Recipients []string
	Content    Content
}

// Queued is a persisted outbox row.
type Queued struct {
	ID         uuid.UUID
	Recipients []string
	Subject    string
	HTML       string
	Attempts   int
	CreatedAt  time.Time
	SentAt     *time.Time
}

// ZonedTime is one timestamp rendered in one recipient's time zone.
type ZonedTime struct {
	Zone    string
	Display string
}

// WelcomeData feeds the registration-confirmed template.
type WelcomeData struct {
	LastName  string
	FirstName string
}

// LessonNoticeData feeds the booking confirmation / cancellation template.
type LessonNoticeData struct {
	Summary     string
	Description string
	StudentName string
	Cancelled   bool
	Starts      []ZonedTime
	Ends        []ZonedTime
}

// LessonReminderData feeds the upcoming-lesson reminder template.
type LessonReminderData struct {
	Summary     string
	Description string
	Starts      []ZonedTime
	Ends        []ZonedTime
}

// RenderZoned formats t in each of the given zones, in order. An unknown zone
// name falls back to UTC rather than dropping the line.
func RenderZoned(t time.Time, zones []string) []ZonedTime {
	out := make([]ZonedTime, 0, len(zones))
	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			loc = time.UTC
		}
		out = append(out, ZonedTime{
			Zone:    zone,
			Display: t.In(loc).Format("2006/01/02 15:04 (MST)"),
		})
	}
	return out
}
