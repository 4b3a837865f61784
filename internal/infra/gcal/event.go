package gcal

import (
	"time"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/ptr"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"
)

// buildEvent translates a lesson description into the upstream event
// resource. Only caller-provided fields are copied; the two attendance flags
// are always pinned and every call requests a fresh conference room with a
// unique token.
func buildEvent(in lesson.WriteInput) (*calendar.Event, error) {
	ev := &calendar.Event{
		AnyoneCanAddSelf:      true,
		GuestsCanInviteOthers: ptr.To(false),
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
			},
		},
		ForceSendFields: []string{"AnyoneCanAddSelf", "GuestsCanInviteOthers"},
	}

	if in.StartTime != nil {
		ev.Start = &calendar.EventDateTime{DateTime: in.StartTime.Format(time.RFC3339)}
		if in.TimeZone != nil {
			ev.Start.TimeZone = *in.TimeZone
		}
	}
	if in.EndTime != nil {
		ev.End = &calendar.EventDateTime{DateTime: in.EndTime.Format(time.RFC3339)}
		if in.TimeZone != nil {
			ev.End.TimeZone = *in.TimeZone
		}
	}
	if in.Summary != nil {
		ev.Summary = *in.Summary
	}
	if in.Description != nil {
		ev.Description = *in.Description
	}
	if len(in.Recurrence) > 0 {
		ev.Recurrence = in.Recurrence
	}

	shared, err := in.Metadata().SharedProperties()
	if err != nil {
		return nil, err
	}
	if shared != nil {
		ev.ExtendedProperties = &calendar.EventExtendedProperties{Shared: shared}
	}

	return ev, nil
}

func snapshotFromEvent(ev *calendar.Event) (*lesson.Snapshot, error) {
	snap := &lesson.Snapshot{
		ID:               ev.Id,
		RecurringEventID: ev.RecurringEventId,
		Summary:          ev.Summary,
		Description:      ev.Description,
		Recurrence:       ev.Recurrence,
	}

	var err error
	if snap.Start, err = parseEventTime(ev.Start); err != nil {
		return nil, infra.WrapRepoErr("failed to parse event start", err)
	}
	if snap.End, err = parseEventTime(ev.End); err != nil {
		return nil, infra.WrapRepoErr("failed to parse event end", err)
	}

	var shared, private map[string]string
	if ev.ExtendedProperties != nil {
		shared = ev.ExtendedProperties.Shared
		private = ev.ExtendedProperties.Private
	}
	meta, reminderSent, err := lesson.DecodeMetadata(shared, private)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode lesson metadata", err)
	}
	snap.Meta = meta
	snap.ReminderSent = reminderSent

	return snap, nil
}

func snapshotsFromEvents(events []*calendar.Event) ([]*lesson.Snapshot, error) {
	out := make([]*lesson.Snapshot, 0, len(events))
	for _, ev := range events {
		snap, err := snapshotFromEvent(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func parseEventTime(edt *calendar.EventDateTime) (time.Time, error) {
	if edt == nil {
		return time.Time{}, nil
	}
	if edt.DateTime != "" {
		return time.Parse(time.RFC3339, edt.DateTime)
	}
	if edt.Date != "" {
		// all-day event
		return time.Parse("2006-01-02", edt.Date)
	}
	return time.Time{}, nil
}
