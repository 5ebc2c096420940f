package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoh04/paperwalls/internal/modules/payments"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	Provider   payments.Provider
	WebhookSvc *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, p payments.Provider, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Provider: p, WebhookSvc: svc}
}

// POST /webhooks/stitch
// Unparseable payloads get a 400; recognized-but-irrelevant events get a 200
// so the provider stops redelivering them.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	ev, err := h.Provider.ParseWebhook(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid payload"})
		return
	}

	if err := h.WebhookSvc.Handle(c.Request.Context(), h.Provider.Name(), ev); err != nil {
		// 500 => provider retries
		h.Logger.Error("webhook apply failed", "payment_id", ev.PaymentID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
