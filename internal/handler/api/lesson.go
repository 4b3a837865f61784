package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"academy-api/internal/domain/lesson"
	reqdto "academy-api/internal/handler/dto/request"
	resdto "academy-api/internal/handler/dto/response"
	"academy-api/internal/usecase/commands"
	"academy-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LessonHandler struct {
	lessonCommands commands.LessonCommands
	lessonQueries  queries.LessonQueries
}

func NewLessonHandler(lessonCommands commands.LessonCommands, lessonQueries queries.LessonQueries) *LessonHandler {
	return &LessonHandler{
		lessonCommands: lessonCommands,
		lessonQueries:  lessonQueries,
	}
}

// @Summary Create lesson
// @Description Create a calendar lesson event
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.WriteLessonRequest true "Lesson fields"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /lessons [post]
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req reqdto.WriteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.lessonCommands.Create(c.Request.Context(), commands.CreateLessonParams{
		Input:           req.ToInput(),
		UseTestCalendar: req.IsTest,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Update lesson
// @Description Update a calendar lesson event; absent fields are left untouched
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.WriteLessonRequest true "Lesson fields"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /lessons/{id} [put]
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	var req reqdto.WriteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	updated, err := h.lessonCommands.Update(c.Request.Context(), commands.UpdateLessonParams{
		EventID:         c.Param("id"),
		Input:           req.ToInput(),
		UseTestCalendar: req.IsTest,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLessonNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lesson not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Delete lesson
// @Description Delete a lesson and refund its point cost to listed students
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param event_type query string true "Lesson type"
// @Param is_test query bool false "Use the test calendar"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /lessons/{id} [delete]
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	err := h.lessonCommands.Delete(c.Request.Context(), commands.DeleteLessonParams{
		EventID:         c.Param("id"),
		EventType:       lesson.EventType(c.Query("event_type")),
		UseTestCalendar: boolQuery(c, "is_test"),
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLessonNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lesson not found",
			})
		case errors.Is(err, commands.ErrInvalidStudentID):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Lesson metadata holds an invalid student id",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get lesson
// @Description Get one lesson by event ID
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param event_type query string true "Lesson type"
// @Param is_test query bool false "Use the test calendar"
// @Success 200 {object} resdto.LessonResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /lessons/{id} [get]
func (h *LessonHandler) GetLesson(c *gin.Context) {
	view, err := h.lessonQueries.Get(
		c.Request.Context(),
		lesson.EventType(c.Query("event_type")),
		boolQuery(c, "is_test"),
		c.Param("id"),
	)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrLessonNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lesson not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	resp, err := resdto.FromLessonView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List lessons
// @Description List lessons in an optional [from, to) window
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param event_type query string true "Lesson type"
// @Param from query string false "Window start (RFC3339)"
// @Param to query string false "Window end (RFC3339)"
// @Param time_zone query string false "Time zone for expansion"
// @Param single_events query bool false "Expand recurring series"
// @Param is_test query bool false "Use the test calendar"
// @Success 200 {array} resdto.LessonResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /lessons [get]
func (h *LessonHandler) ListLessons(c *gin.Context) {
	q := queries.ListLessonsQuery{
		EventType:       lesson.EventType(c.Query("event_type")),
		UseTestCalendar: boolQuery(c, "is_test"),
		TimeZone:        c.Query("time_zone"),
		SingleEvents:    boolQuery(c, "single_events"),
	}

	var err error
	if q.From, err = timeQuery(c, "from"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid from timestamp",
		})
		return
	}
	if q.To, err = timeQuery(c, "to"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid to timestamp",
		})
		return
	}

	views, err := h.lessonQueries.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	resp, err := resdto.FromLessonViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List series instances
// @Description List the concrete instances of a recurring lesson series
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recurring event ID"
// @Param event_type query string true "Lesson type"
// @Param is_test query bool false "Use the test calendar"
// @Success 200 {array} resdto.LessonResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /lessons/{id}/instances [get]
func (h *LessonHandler) ListInstances(c *gin.Context) {
	views, err := h.lessonQueries.Instances(
		c.Request.Context(),
		lesson.EventType(c.Query("event_type")),
		boolQuery(c, "is_test"),
		c.Param("id"),
	)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrLessonNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lesson not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	resp, err := resdto.FromLessonViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func boolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(key, "false"))
	return err == nil && v
}

func timeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
