package lesson

import (
	"encoding/json"
	"strconv"

	"academy-api/internal/pkg/errs"
)

// Extended-property keys on the calendar event. The shared block is visible to
// attendees, the private block only to this service.
const (
	propEventType     = "eventType"
	propTeacherID     = "teacherId"
	propStudentIDList = "studentIdList"
	propNumPoints     = "numPoints"
	propReminderSent  = "reminderSent"
)

// Metadata is the lesson record stored on a calendar event's extended
// properties. Serialization happens here and nowhere else.
type Metadata struct {
	EventType  EventType
	TeacherID  string
	StudentIDs []string
	NumPoints  int
}

// SharedProperties encodes the metadata into the event's shared
// extended-property map. Zero-valued fields are left out.
func (m Metadata) SharedProperties() (map[string]string, error) {
	props := make(map[string]string)
	if m.EventType != "" {
		props[propEventType] = string(m.EventType)
	}
	if m.TeacherID != "" {
		props[propTeacherID] = m.TeacherID
	}
	if len(m.StudentIDs) > 0 {
		encoded, err := json.Marshal(m.StudentIDs)
		if err != nil {
			return nil, errs.Wrap(err, "failed to encode student id list")
		}
		props[propStudentIDList] = string(encoded)
	}
	if m.NumPoints != 0 {
		props[propNumPoints] = strconv.Itoa(m.NumPoints)
	}
	if len(props) == 0 {
		return nil, nil
	}
	return props, nil
}

// ReminderSentProperty is the private extended-property patch that marks an
// event as already reminded.
func ReminderSentProperty() map[string]string {
	return map[string]string{propReminderSent: "true"}
}

// DecodeMetadata reads the lesson metadata back out of an event's extended
// properties. Unknown keys are ignored; a malformed student list is an error
// because the refund path depends on it.
func DecodeMetadata(shared, private map[string]string) (Metadata, bool, error) {
	var m Metadata

	m.EventType = EventType(shared[propEventType])
	m.TeacherID = shared[propTeacherID]

	if raw, ok := shared[propStudentIDList]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &m.StudentIDs); err != nil {
			return Metadata{}, false, errs.Wrap(err, "failed to decode student id list")
		}
	}

	if raw, ok := shared[propNumPoints]; ok && raw != "" {
		points, err := strconv.Atoi(raw)
		if err != nil {
			return Metadata{}, false, errs.Wrap(err, "failed to decode point cost")
		}
		m.NumPoints = points
	}

	reminderSent := private[propReminderSent] == "true"
	return m, reminderSent, nil
}
