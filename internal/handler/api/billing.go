package api

import (
	"errors"
	"io"
	"net/http"

	"academy-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBody = 1 << 20

type BillingHandler struct {
	billingCommands commands.BillingCommands
}

func NewBillingHandler(billingCommands commands.BillingCommands) *BillingHandler {
	return &BillingHandler{
		billingCommands: billingCommands,
	}
}

// @Summary Billing webhook
// @Description Receive and classify payment platform events
// @Tags billing
// @Accept json
// @Produce plain
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Failure 500 {string} string
// @Router /billing/webhook [post]
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable payload")
		return
	}

	err = h.billingCommands.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		var diag *commands.DiagnosticError
		switch {
		case errors.Is(err, commands.ErrBadSignature):
			c.String(http.StatusBadRequest, "signature verification failed")
		case errors.As(err, &diag):
			// The diagnostic text is intentionally surfaced to the
			// platform's delivery log for operator triage.
			c.String(http.StatusInternalServerError, diag.Diagnostic)
		default:
			c.String(http.StatusInternalServerError, "webhook handling failed")
		}
		return
	}

	c.String(http.StatusOK, "ok")
}
