package gcal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/config"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Results per list call; the upstream hard-caps pages at 2500 and this
// gateway does not follow continuation tokens.
const maxListResults = 2500

// Gateway wraps the calendar API behind the narrow surface the usecases need.
// Every upstream failure is logged and surfaced as one UPSTREAM_FAILURE; no
// retry, no transient/permanent distinction.
type Gateway struct {
	svc    *calendar.Service
	logger *slog.Logger
}

func New(ctx context.Context, cfg config.CalendarConfig, logger *slog.Logger) (*Gateway, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build calendar client", err, infra.KindUpstreamFailure)
	}
	return &Gateway{svc: svc, logger: logger}, nil
}

func (g *Gateway) Insert(ctx context.Context, calendarID string, in lesson.WriteInput) (*calendar.Event, error) {
	ev, err := buildEvent(in)
	if err != nil {
		return nil, err
	}

	created, err := g.svc.Events.Insert(calendarID, ev).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.upstreamErr("failed to insert event", err)
	}
	return created, nil
}

func (g *Gateway) Update(ctx context.Context, calendarID, eventID string, in lesson.WriteInput) (*calendar.Event, error) {
	ev, err := buildEvent(in)
	if err != nil {
		return nil, err
	}

	updated, err := g.svc.Events.Update(calendarID, eventID, ev).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.upstreamErr("failed to update event", err)
	}
	return updated, nil
}

func (g *Gateway) Get(ctx context.Context, calendarID, eventID string) (*lesson.Snapshot, error) {
	ev, err := g.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, g.upstreamErr("failed to get event", err)
	}
	return snapshotFromEvent(ev)
}

func (g *Gateway) List(ctx context.Context, calendarID string, q lesson.ListQuery) ([]*lesson.Snapshot, error) {
	call := g.svc.Events.List(calendarID).
		MaxResults(maxListResults).
		SingleEvents(q.SingleEvents).
		Context(ctx)
	if q.SingleEvents {
		// orderBy=startTime is only valid on expanded instances
		call = call.OrderBy("startTime")
	}
	if q.TimeZone != nil {
		call = call.TimeZone(*q.TimeZone)
	}
	if q.From != nil {
		call = call.TimeMin(q.From.Format(time.RFC3339))
	}
	if q.To != nil {
		call = call.TimeMax(q.To.Format(time.RFC3339))
	}

	res, err := call.Do()
	if err != nil {
		return nil, g.upstreamErr("failed to list events", err)
	}
	return snapshotsFromEvents(res.Items)
}

func (g *Gateway) Instances(ctx context.Context, calendarID, eventID string, q lesson.ListQuery) ([]*lesson.Snapshot, error) {
	call := g.svc.Events.Instances(calendarID, eventID).
		MaxResults(maxListResults).
		Context(ctx)
	if q.TimeZone != nil {
		call = call.TimeZone(*q.TimeZone)
	}
	if q.From != nil {
		call = call.TimeMin(q.From.Format(time.RFC3339))
	}
	if q.To != nil {
		call = call.TimeMax(q.To.Format(time.RFC3339))
	}

	res, err := call.Do()
	if err != nil {
		return nil, g.upstreamErr("failed to list instances", err)
	}
	return snapshotsFromEvents(res.Items)
}

func (g *Gateway) Delete(ctx context.Context, calendarID, eventID string) error {
	if err := g.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return g.upstreamErr("failed to delete event", err)
	}
	return nil
}

// MarkReminderSent patches only the private reminder flag; no other event
// fields are touched.
func (g *Gateway) MarkReminderSent(ctx context.Context, calendarID, eventID string) error {
	patch := &calendar.Event{
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: lesson.ReminderSentProperty(),
		},
	}
	if _, err := g.svc.Events.Patch(calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return g.upstreamErr("failed to patch reminder flag", err)
	}
	return nil
}

func (g *Gateway) upstreamErr(msg string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 404 {
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	}
	g.logger.Error("calendar API call failed", "error", err)
	return infra.WrapRepoErr(msg, err, infra.KindUpstreamFailure)
}
