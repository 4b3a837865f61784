package request

import (
	"time"

	"github.com/google/uuid"
)

type NotifyAttendeesRequest struct {
	TeacherID   *uuid.UUID `json:"teacher_id,omitempty"`
	StudentID   uuid.UUID  `json:"student_id" binding:"required"`
	Summary     string     `json:"summary" binding:"required"`
	Description string     `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time" binding:"required"`
	EndTime     time.Time  `json:"end_time" binding:"required"`
	Cancel      bool       `json:"cancel,omitempty"`
}
