package api

import (
	"errors"
	"net/http"

	reqdto "academy-api/internal/handler/dto/request"
	resdto "academy-api/internal/handler/dto/response"
	"academy-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionCommands commands.SubscriptionCommands
	notificationCommands commands.NotificationCommands
}

func NewSubscriptionHandler(
	subscriptionCommands commands.SubscriptionCommands,
	notificationCommands commands.NotificationCommands,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionCommands: subscriptionCommands,
		notificationCommands: notificationCommands,
	}
}

// @Summary Update subscription items
// @Description Attach, swap or remove one plan item on a subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param request body reqdto.UpdateSubscriptionRequest true "Item change"
// @Success 200 {object} resdto.SubscriptionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /subscriptions/{id} [patch]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	var req reqdto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	sub, err := h.subscriptionCommands.UpdateSubscription(c.Request.Context(), c.Param("id"), commands.UpdateSubscriptionParams{
		Deleted:         req.Deleted,
		PriceID:         req.PriceID,
		Quantity:        req.Quantity,
		ExistingPriceID: req.ExistingPriceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSubscriptionItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Subscription item not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSubscription(sub))
}

// @Summary Notify lesson attendees
// @Description Queue the booking confirmation or cancellation mail for a lesson
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.NotifyAttendeesRequest true "Lesson and attendees"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notifications/lesson [post]
func (h *SubscriptionHandler) NotifyAttendees(c *gin.Context) {
	var req reqdto.NotifyAttendeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err := h.notificationCommands.NotifyAttendees(c.Request.Context(), commands.NotifyAttendeesParams{
		TeacherID:   req.TeacherID,
		StudentID:   req.StudentID,
		Summary:     req.Summary,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Cancel:      req.Cancel,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Student profile not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "queued",
	})
}
