//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/domain/profile"
	"academy-api/internal/pkg/clock"
	"academy-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepFixture struct {
	gateway  *fakeCalendarGateway
	profiles *fakeProfiles
	outbox   *fakeOutbox
	sweeper  *commands.Sweeper
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		gateway:  newFakeCalendarGateway(),
		profiles: newFakeProfiles(),
		outbox:   &fakeOutbox{},
	}
	f.sweeper = commands.NewSweeper(
		f.gateway, f.profiles, f.outbox, fakeRenderer{}, testCalendars,
		clock.NewFixedClock(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)),
		24*time.Hour, "admin@example.com", discardLogger(),
	)
	return f
}

func privateLesson(id string, studentIDs ...string) *lesson.Snapshot {
	return &lesson.Snapshot{
		ID:      id,
		Summary: "Private lesson",
		Start:   time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 4, 1, 16, 0, 0, 0, time.UTC),
		Meta: lesson.Metadata{
			EventType:  lesson.EventTypePrivate,
			StudentIDs: studentIDs,
		},
	}
}

func TestSweeperRunOnce(t *testing.T) {
	studentID := uuid.New()
	teacherID := uuid.New()

	t.Run("reminds upcoming private lessons once", func(t *testing.T) {
		f := newSweepFixture()
		f.profiles.students[studentID] = &profile.Student{ID: studentID, Email: "student@example.com", TimeZone: "Asia/Tokyo"}
		f.profiles.teachers[teacherID] = &profile.Teacher{ID: teacherID, Email: "teacher@example.com", TimeZone: "America/New_York"}

		ev := privateLesson("ev-1", studentID.String())
		ev.Meta.TeacherID = teacherID.String()
		f.gateway.listed = []*lesson.Snapshot{ev}

		require.NoError(t, f.sweeper.RunOnce(context.Background()))

		require.Len(t, f.outbox.enqueued, 1)
		msg := f.outbox.enqueued[0]
		assert.Equal(t, []string{"admin@example.com", "teacher@example.com", "student@example.com"}, msg.Recipients)
		assert.Equal(t, "reminder", msg.Content.Subject)

		assert.Equal(t, []string{"ev-1"}, f.gateway.reminded)
		assert.Equal(t, "cal-primary", f.gateway.lastCalendarID)
	})

	t.Run("non-private lessons are skipped", func(t *testing.T) {
		f := newSweepFixture()
		ev := privateLesson("ev-2", studentID.String())
		ev.Meta.EventType = lesson.EventTypeFree
		f.gateway.listed = []*lesson.Snapshot{ev}

		require.NoError(t, f.sweeper.RunOnce(context.Background()))
		assert.Empty(t, f.outbox.enqueued)
		assert.Empty(t, f.gateway.reminded)
	})

	t.Run("already reminded lessons are skipped", func(t *testing.T) {
		f := newSweepFixture()
		f.profiles.students[studentID] = &profile.Student{ID: studentID, Email: "student@example.com"}
		ev := privateLesson("ev-3", studentID.String())
		ev.ReminderSent = true
		f.gateway.listed = []*lesson.Snapshot{ev}

		require.NoError(t, f.sweeper.RunOnce(context.Background()))
		assert.Empty(t, f.outbox.enqueued)
	})

	t.Run("no resolvable students means no mail and no flag", func(t *testing.T) {
		f := newSweepFixture()
		f.gateway.listed = []*lesson.Snapshot{privateLesson("ev-4", uuid.NewString())}

		require.NoError(t, f.sweeper.RunOnce(context.Background()))
		assert.Empty(t, f.outbox.enqueued)
		assert.Empty(t, f.gateway.reminded)
	})

	t.Run("one broken event does not stop the sweep", func(t *testing.T) {
		f := newSweepFixture()
		f.profiles.students[studentID] = &profile.Student{ID: studentID, Email: "student@example.com"}

		broken := privateLesson("ev-5", studentID.String())
		fine := privateLesson("ev-6", studentID.String())
		f.gateway.listed = []*lesson.Snapshot{broken, fine}
		f.outbox.enqueueErr = nil

		// fail only the first enqueue
		calls := 0
		f.outbox.enqueueHook = func() error {
			calls++
			if calls == 1 {
				return assert.AnError
			}
			return nil
		}

		require.NoError(t, f.sweeper.RunOnce(context.Background()))
		assert.Equal(t, []string{"ev-6"}, f.gateway.reminded)
	})
}
