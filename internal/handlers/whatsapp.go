package handlers

import (
	"errors"
	"net/http"

	"crm-backend/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

const whatsappNotConfigured = "Faltan WHATSAPP_TOKEN o PHONE_NUMBER_ID en variables de entorno"

// WhatsAppHandler serves POST /whatsapp/send
type WhatsAppHandler struct {
	sender Sender
}

// NewWhatsAppHandler creates a relay handler
func NewWhatsAppHandler(sender Sender) *WhatsAppHandler {
	return &WhatsAppHandler{sender: sender}
}

type whatsappSendRequest struct {
	Message    string   `json:"message"`
	Recipients []string `json:"recipients" binding:"required"`
	ImageURL   *string  `json:"image_url"`
}

// Send relays the message to every recipient. Per-recipient failures do not
// fail the request; they are reported with "partial": true.
func (h *WhatsAppHandler) Send(c *gin.Context) {
	var req whatsappSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if !h.sender.Configured() {
		respondError(c, http.StatusInternalServerError, whatsappNotConfigured)
		return
	}

	msg := whatsapp.Message{Text: req.Message}
	if req.ImageURL != nil {
		msg.ImageURL = *req.ImageURL
	}

	results, err := h.sender.Send(c.Request.Context(), msg, req.Recipients)
	if err != nil {
		if errors.Is(err, whatsapp.ErrNotConfigured) {
			respondError(c, http.StatusInternalServerError, whatsappNotConfigured)
			return
		}
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, relayResponse(results))
}

func relayResponse(results []whatsapp.Result) gin.H {
	if whatsapp.AnyFailed(results) {
		return gin.H{"partial": true, "results": results}
	}
	return gin.H{"ok": true, "results": results}
}
