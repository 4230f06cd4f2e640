package api

import (
	"errors"
	"net/http"

	reqdto "fleetbook/internal/handler/dto/request"
	"fleetbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentWebhookHandler struct {
	paymentCommands commands.PaymentCommands
}

func NewPaymentWebhookHandler(paymentCommands commands.PaymentCommands) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		paymentCommands: paymentCommands,
	}
}

// @Summary Payment provider webhook
// @Description Receive payment lifecycle events from the provider
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "HMAC-SHA256 of the raw body"
// @Param request body reqdto.PaymentWebhookRequest true "Provider event"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /webhooks/payment [post]
func (h *PaymentWebhookHandler) HandleEvent(c *gin.Context) {
	var req reqdto.PaymentWebhookRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event format",
		})
		return
	}

	err := h.paymentCommands.HandleEvent(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMissingBookingRef):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Event metadata missing booking reference",
			})
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unknown transaction reference",
			})
		case errors.Is(err, commands.ErrInvalidStateTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is not in a confirmable state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
