//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academy-api/internal/domain/lesson"
	"academy-api/internal/handler/api"
	"academy-api/internal/usecase/commands"
	"academy-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"google.golang.org/api/calendar/v3"
)

type fakeLessonCommands struct {
	created   *commands.CreateLessonParams
	updated   *commands.UpdateLessonParams
	deleted   *commands.DeleteLessonParams
	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeLessonCommands) Create(_ context.Context, p commands.CreateLessonParams) (*calendar.Event, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &p
	return &calendar.Event{Id: "ev_new"}, nil
}

func (f *fakeLessonCommands) Update(_ context.Context, p commands.UpdateLessonParams) (*calendar.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = &p
	return &calendar.Event{Id: p.EventID}, nil
}

func (f *fakeLessonCommands) Delete(_ context.Context, p commands.DeleteLessonParams) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = &p
	return nil
}

type fakeLessonQueries struct {
	view    *queries.LessonView
	views   []*queries.LessonView
	lastQ   *queries.ListLessonsQuery
	getErr  error
	listErr error
}

func (f *fakeLessonQueries) Get(_ context.Context, _ lesson.EventType, _ bool, _ string) (*queries.LessonView, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.view, nil
}

func (f *fakeLessonQueries) List(_ context.Context, q queries.ListLessonsQuery) ([]*queries.LessonView, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastQ = &q
	return f.views, nil
}

func (f *fakeLessonQueries) Instances(_ context.Context, _ lesson.EventType, _ bool, _ string) ([]*queries.LessonView, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.views, nil
}

type LessonHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeLessonCommands
	queries  *fakeLessonQueries
}

func (s *LessonHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &fakeLessonCommands{}
	s.queries = &fakeLessonQueries{}
	handler := api.NewLessonHandler(s.commands, s.queries)

	s.router.GET("/lessons", handler.ListLessons)
	s.router.POST("/lessons", handler.CreateLesson)
	s.router.GET("/lessons/:id", handler.GetLesson)
	s.router.PUT("/lessons/:id", handler.UpdateLesson)
	s.router.DELETE("/lessons/:id", handler.DeleteLesson)
	s.router.GET("/lessons/:id/instances", handler.ListInstances)
}

func TestLessonHandlerSuite(t *testing.T) {
	suite.Run(t, new(LessonHandlerTestSuite))
}

func (s *LessonHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validLessonBody() map[string]any {
	return map[string]any{
		"event_type":  "preschool",
		"summary":     "Math G3",
		"description": "fractions",
		"start_time":  "2025-04-02T09:00:00Z",
		"end_time":    "2025-04-02T10:00:00Z",
		"time_zone":   "Asia/Tokyo",
	}
}

func (s *LessonHandlerTestSuite) TestCreateLesson() {
	s.Run("success: returns 201 with the created event", func() {
		rec := s.perform(http.MethodPost, "/lessons", validLessonBody())

		s.Equal(http.StatusCreated, rec.Code)
		s.Require().NotNil(s.commands.created)
		s.Equal(lesson.EventTypePreschool, s.commands.created.Input.EventType)

		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("ev_new", body["id"])
	})

	s.Run("success: test flag routes to the test calendar", func() {
		body := validLessonBody()
		body["is_test"] = true

		rec := s.perform(http.MethodPost, "/lessons", body)

		s.Equal(http.StatusCreated, rec.Code)
		s.True(s.commands.created.UseTestCalendar)
	})

	s.Run("error: 400 on malformed JSON", func() {
		req := httptest.NewRequest(http.MethodPost, "/lessons", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 500 when the calendar write fails", func() {
		s.commands.createErr = commands.ErrCalendarOperationFailed

		rec := s.perform(http.MethodPost, "/lessons", validLessonBody())

		s.Equal(http.StatusInternalServerError, rec.Code)
		s.commands.createErr = nil
	})
}

func (s *LessonHandlerTestSuite) TestUpdateLesson() {
	s.Run("success: returns 200 and forwards the event id", func() {
		rec := s.perform(http.MethodPut, "/lessons/ev_1", validLessonBody())

		s.Equal(http.StatusOK, rec.Code)
		s.Require().NotNil(s.commands.updated)
		s.Equal("ev_1", s.commands.updated.EventID)
	})

	s.Run("error: 404 for a missing event", func() {
		s.commands.updateErr = commands.ErrLessonNotFound

		rec := s.perform(http.MethodPut, "/lessons/ev_missing", validLessonBody())

		s.Equal(http.StatusNotFound, rec.Code)
		s.commands.updateErr = nil
	})
}

func (s *LessonHandlerTestSuite) TestDeleteLesson() {
	s.Run("success: returns 204 and carries the query params", func() {
		rec := s.perform(http.MethodDelete, "/lessons/ev_1?event_type=private&is_test=true", nil)

		s.Equal(http.StatusNoContent, rec.Code)
		s.Require().NotNil(s.commands.deleted)
		s.Equal("ev_1", s.commands.deleted.EventID)
		s.Equal(lesson.EventTypePrivate, s.commands.deleted.EventType)
		s.True(s.commands.deleted.UseTestCalendar)
	})

	s.Run("error: 404 for a missing event", func() {
		s.commands.deleteErr = commands.ErrLessonNotFound

		rec := s.perform(http.MethodDelete, "/lessons/ev_missing?event_type=private", nil)

		s.Equal(http.StatusNotFound, rec.Code)
		s.commands.deleteErr = nil
	})

	s.Run("error: 422 when the metadata holds a bad student id", func() {
		s.commands.deleteErr = commands.ErrInvalidStudentID

		rec := s.perform(http.MethodDelete, "/lessons/ev_1?event_type=private", nil)

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.commands.deleteErr = nil
	})
}

func (s *LessonHandlerTestSuite) TestGetLesson() {
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	s.queries.view = &queries.LessonView{
		ID:        "ev_1",
		Summary:   "Math G3",
		Start:     start,
		End:       start.Add(time.Hour),
		NumPoints: 3,
	}

	s.Run("success: returns 200 with the lesson", func() {
		rec := s.perform(http.MethodGet, "/lessons/ev_1?event_type=preschool", nil)

		s.Equal(http.StatusOK, rec.Code)
		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("ev_1", body["id"])
		s.Equal(float64(3), body["numPoints"])
	})

	s.Run("error: 404 for a missing event", func() {
		s.queries.getErr = queries.ErrLessonNotFound

		rec := s.perform(http.MethodGet, "/lessons/ev_missing?event_type=preschool", nil)

		s.Equal(http.StatusNotFound, rec.Code)
		s.queries.getErr = nil
	})
}

func (s *LessonHandlerTestSuite) TestListLessons() {
	s.queries.views = []*queries.LessonView{
		{ID: "ev_1", Summary: "Math G3"},
		{ID: "ev_2", Summary: "Science G5"},
	}

	s.Run("success: returns 200 and forwards the window", func() {
		rec := s.perform(http.MethodGet, "/lessons?event_type=preschool&from=2025-04-01T00:00:00Z&to=2025-04-08T00:00:00Z&single_events=true", nil)

		s.Equal(http.StatusOK, rec.Code)
		s.Require().NotNil(s.queries.lastQ)
		s.Equal(lesson.EventTypePreschool, s.queries.lastQ.EventType)
		s.True(s.queries.lastQ.SingleEvents)
		s.Require().NotNil(s.queries.lastQ.From)
		s.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), s.queries.lastQ.From.UTC())

		var body []map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Len(body, 2)
	})

	s.Run("error: 400 on an unparsable window bound", func() {
		rec := s.perform(http.MethodGet, "/lessons?event_type=preschool&from=yesterday", nil)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *LessonHandlerTestSuite) TestListInstances() {
	s.queries.views = []*queries.LessonView{
		{ID: "ev_1_20250402", RecurringEventID: "ev_1"},
		{ID: "ev_1_20250409", RecurringEventID: "ev_1"},
	}

	s.Run("success: returns the series instances", func() {
		rec := s.perform(http.MethodGet, "/lessons/ev_1/instances?event_type=private", nil)

		s.Equal(http.StatusOK, rec.Code)
		var body []map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Len(body, 2)
	})

	s.Run("error: 404 for an unknown series", func() {
		s.queries.listErr = queries.ErrLessonNotFound

		rec := s.perform(http.MethodGet, "/lessons/ev_missing/instances?event_type=private", nil)

		s.Equal(http.StatusNotFound, rec.Code)
		s.queries.listErr = nil
	})
}
