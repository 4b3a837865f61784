package lesson

import (
	"time"
)

// EventType tags a calendar entry with the kind of lesson it represents.
// The tag is free text on the wire; only the known values select a dedicated
// calendar, everything else lands on the primary one.
type EventType string

const (
	EventTypeFree      EventType = "free"
	EventTypePreschool EventType = "preschool"
	EventTypePrivate   EventType = "private"
)

// Calendars is the fixed lookup table of calendar resource identifiers.
// One parameterized selector replaces the per-calendar handler variants.
type Calendars struct {
	Free      string
	Preschool string
	Private   string
	Primary   string
	Test      string
}

// Select returns the calendar identifier for the given lesson type. When
// useTest is set the test calendar is returned regardless of type.
func (c Calendars) Select(t EventType, useTest bool) string {
	if useTest {
		return c.Test
	}
	switch t {
	case EventTypeFree:
		return c.Free
	case EventTypePreschool:
		return c.Preschool
	case EventTypePrivate:
		return c.Private
	default:
		return c.Primary
	}
}

// WriteInput describes a lesson event to insert or update. Nil fields are
// omitted from the upstream request rather than written as nulls.
type WriteInput struct {
	EventType   EventType
	Summary     *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	TimeZone    *string
	Recurrence  []string
	TeacherID   *string
	StudentIDs  []string
	NumPoints   *int
}

// Metadata returns the lesson metadata carried by the input.
func (in WriteInput) Metadata() Metadata {
	m := Metadata{
		EventType:  in.EventType,
		StudentIDs: in.StudentIDs,
	}
	if in.TeacherID != nil {
		m.TeacherID = *in.TeacherID
	}
	if in.NumPoints != nil {
		m.NumPoints = *in.NumPoints
	}
	return m
}

// Snapshot is the reduced projection of a calendar event returned by reads.
type Snapshot struct {
	ID               string
	RecurringEventID string
	Summary          string
	Description      string
	Start            time.Time
	End              time.Time
	Recurrence       []string
	Meta             Metadata
	ReminderSent     bool
}

// IsRecurring reports whether the snapshot is the root of a recurring series.
func (s *Snapshot) IsRecurring() bool {
	return len(s.Recurrence) > 0
}

// ListQuery bounds a listing to a half-open [From, To) window. Nil bounds are
// not sent upstream, which lists the whole calendar.
type ListQuery struct {
	TimeZone     *string
	From         *time.Time
	To           *time.Time
	SingleEvents bool
}
