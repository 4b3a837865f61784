package queries

import (
	"context"
	"time"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/errs"
)

var ErrLessonNotFound = errs.New("lesson not found")

// Read models (DTO for read side)
type LessonView struct {
	ID               string    `json:"id"`
	RecurringEventID string    `json:"recurring_event_id,omitempty"`
	Summary          string    `json:"summary"`
	Description      string    `json:"description,omitempty"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Recurrence       []string  `json:"recurrence,omitempty"`
	EventType        string    `json:"event_type,omitempty"`
	TeacherID        string    `json:"teacher_id,omitempty"`
	StudentIDs       []string  `json:"student_ids,omitempty"`
	NumPoints        int       `json:"num_points"`
	ReminderSent     bool      `json:"reminder_sent"`
}

type ListLessonsQuery struct {
	EventType       lesson.EventType
	UseTestCalendar bool
	TimeZone        string
	From            *time.Time
	To              *time.Time
	SingleEvents    bool
}

type LessonQueries interface {
	Get(ctx context.Context, eventType lesson.EventType, useTest bool, eventID string) (*LessonView, error)
	List(ctx context.Context, q ListLessonsQuery) ([]*LessonView, error)
	Instances(ctx context.Context, eventType lesson.EventType, useTest bool, recurringEventID string) ([]*LessonView, error)
}

// LessonReadStore is the read-side calendar surface.
type LessonReadStore interface {
	Get(ctx context.Context, calendarID, eventID string) (*lesson.Snapshot, error)
	List(ctx context.Context, calendarID string, q lesson.ListQuery) ([]*lesson.Snapshot, error)
	Instances(ctx context.Context, calendarID, eventID string, q lesson.ListQuery) ([]*lesson.Snapshot, error)
}

type lessonQueriesImpl struct {
	store     LessonReadStore
	calendars lesson.Calendars
}

func NewLessonQueries(store LessonReadStore, calendars lesson.Calendars) LessonQueries {
	return &lessonQueriesImpl{store: store, calendars: calendars}
}

func (q *lessonQueriesImpl) Get(ctx context.Context, eventType lesson.EventType, useTest bool, eventID string) (*LessonView, error) {
	snap, err := q.store.Get(ctx, q.calendars.Select(eventType, useTest), eventID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return viewFromSnapshot(snap), nil
}

func (q *lessonQueriesImpl) List(ctx context.Context, in ListLessonsQuery) ([]*LessonView, error) {
	lq := lesson.ListQuery{
		From:         in.From,
		To:           in.To,
		SingleEvents: in.SingleEvents,
	}
	if in.TimeZone != "" {
		lq.TimeZone = &in.TimeZone
	}
	snaps, err := q.store.List(ctx, q.calendars.Select(in.EventType, in.UseTestCalendar), lq)
	if err != nil {
		return nil, err
	}
	return viewsFromSnapshots(snaps), nil
}

func (q *lessonQueriesImpl) Instances(ctx context.Context, eventType lesson.EventType, useTest bool, recurringEventID string) ([]*LessonView, error) {
	snaps, err := q.store.Instances(ctx, q.calendars.Select(eventType, useTest), recurringEventID, lesson.ListQuery{})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return viewsFromSnapshots(snaps), nil
}

func viewFromSnapshot(s *lesson.Snapshot) *LessonView {
	return &LessonView{
		ID:               s.ID,
		RecurringEventID: s.RecurringEventID,
		Summary:          s.Summary,
		Description:      s.Description,
		Start:            s.Start,
		End:              s.End,
		Recurrence:       s.Recurrence,
		EventType:        string(s.Meta.EventType),
		TeacherID:        s.Meta.TeacherID,
		StudentIDs:       s.Meta.StudentIDs,
		NumPoints:        s.Meta.NumPoints,
		ReminderSent:     s.ReminderSent,
	}
}

func viewsFromSnapshots(snaps []*lesson.Snapshot) []*LessonView {
	views := make([]*LessonView, 0, len(snaps))
	for _, s := range snaps {
		views = append(views, viewFromSnapshot(s))
	}
	return views
}
