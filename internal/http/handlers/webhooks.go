package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	Provider   payments.Provider
	WebhookSvc *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, p payments.Provider, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Provider: p, WebhookSvc: svc}
}

// POST /api/stripe/webhook
// The body stays raw until the signature over its exact bytes is verified.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"received": false, "error": "invalid body"})
		return
	}

	ev, err := h.Provider.VerifyAndParseWebhook(c.Request.Header, body)
	if err != nil {
		h.Logger.Warn("webhook rejected", "provider", h.Provider.Name(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"received": false, "error": "invalid signature or payload"})
		return
	}

	if err := h.WebhookSvc.Handle(c.Request.Context(), h.Provider.Name(), ev, body); err != nil {
		// 500 so the provider redelivers
		h.Logger.Error("webhook apply failed", "event_id", ev.EventID, "type", ev.Type, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"received": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
