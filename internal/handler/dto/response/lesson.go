package response

import (
	"time"

	"academy-api/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type LessonResponse struct {
	ID               string    `json:"id"`
	RecurringEventID string    `json:"recurringEventId,omitempty"`
	Summary          string    `json:"summary"`
	Description      string    `json:"description,omitempty"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Recurrence       []string  `json:"recurrence,omitempty"`
	EventType        string    `json:"eventType,omitempty"`
	TeacherID        string    `json:"teacherId,omitempty"`
	StudentIDs       []string  `json:"studentIds,omitempty"`
	NumPoints        int       `json:"numPoints"`
	ReminderSent     bool      `json:"reminderSent"`
}

func FromLessonView(v *queries.LessonView) (*LessonResponse, error) {
	var resp LessonResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromLessonViews(views []*queries.LessonView) ([]*LessonResponse, error) {
	resps := make([]*LessonResponse, 0, len(views))
	for _, v := range views {
		resp, err := FromLessonView(v)
		if err != nil {
			return nil, err
		}
		resps = append(resps, resp)
	}
	return resps, nil
}
