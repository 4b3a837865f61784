package request

import (
	"time"

	"academy-api/internal/domain/lesson"
)

// WriteLessonRequest carries the lesson fields for create and update. Absent
// fields stay nil and are never sent upstream, which is what lets update act
// as a sparse patch.
type WriteLessonRequest struct {
	EventType   string     `json:"event_type" binding:"required"`
	Summary     *string    `json:"summary,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	TimeZone    *string    `json:"time_zone,omitempty"`
	Recurrence  []string   `json:"recurrence,omitempty"`
	TeacherID   *string    `json:"teacher_id,omitempty"`
	StudentIDs  []string   `json:"student_ids,omitempty"`
	NumPoints   *int       `json:"num_points,omitempty"`
	IsTest      bool       `json:"is_test,omitempty"`
}

func (r WriteLessonRequest) ToInput() lesson.WriteInput {
	return lesson.WriteInput{
		EventType:   lesson.EventType(r.EventType),
		Summary:     r.Summary,
		Description: r.Description,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		TimeZone:    r.TimeZone,
		Recurrence:  r.Recurrence,
		TeacherID:   r.TeacherID,
		StudentIDs:  r.StudentIDs,
		NumPoints:   r.NumPoints,
	}
}

type DeleteLessonRequest struct {
	EventType string `json:"event_type" binding:"required"`
	IsTest    bool   `json:"is_test,omitempty"`
}
