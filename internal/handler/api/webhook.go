package api

import (
	"errors"
	"log/slog"
	"net/http"

	"worklab/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// WebhookHandler ingests delivery-status callbacks from the messaging
// provider. The provider posts form-encoded updates for each sent message.
type WebhookHandler struct {
	notificationCommands commands.NotificationCommands
}

func NewWebhookHandler(notificationCommands commands.NotificationCommands) *WebhookHandler {
	return &WebhookHandler{notificationCommands: notificationCommands}
}

// @Summary Messaging delivery status callback
// @Tags webhooks
// @Accept x-www-form-urlencoded
// @Produce json
// @Param MessageSid formData string true "Provider message reference"
// @Param MessageStatus formData string false "Delivery status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /webhooks/twilio/status [post]
func (h *WebhookHandler) TwilioStatus(c *gin.Context) {
	sid := c.PostForm("MessageSid")
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "MessageSid is required",
		})
		return
	}

	input := commands.DeliveryStatusInput{
		ProviderSID: sid,
		Status:      c.PostForm("MessageStatus"),
		ErrorCode:   c.PostForm("ErrorCode"),
	}

	err := h.notificationCommands.RecordDeliveryStatus(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, commands.ErrNotificationNotFound) {
			// Answer 200 anyway: a bounce would only make the provider
			// retry a callback we cannot correlate.
			slog.Warn("delivery status for unknown message", "provider_sid", sid)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
