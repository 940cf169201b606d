package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"crm-backend/internal/database"
	"crm-backend/internal/models"
	"crm-backend/internal/scheduler"
	"crm-backend/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

const broadcastNotFound = "Difusión no encontrada"

// Sender relays a message to a list of phone numbers
type Sender interface {
	Configured() bool
	Send(ctx context.Context, msg whatsapp.Message, recipients []string) ([]whatsapp.Result, error)
}

// BroadcastHandler serves /difusiones
type BroadcastHandler struct {
	db     *database.GormDB
	sender Sender
	now    func() time.Time
}

// NewBroadcastHandler creates a broadcast handler
func NewBroadcastHandler(db *database.GormDB, sender Sender) *BroadcastHandler {
	return &BroadcastHandler{db: db, sender: sender, now: time.Now}
}

type broadcastRequest struct {
	Message    string   `json:"message"`
	ImageURL   *string  `json:"image_url"`
	Recipients []string `json:"recipients"`
}

// List returns every broadcast, newest first
func (h *BroadcastHandler) List(c *gin.Context) {
	broadcasts, err := h.db.ListBroadcasts(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	c.JSON(http.StatusOK, broadcasts)
}

// Get returns one broadcast
func (h *BroadcastHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.db.GetBroadcastByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Create stores a new draft broadcast
func (h *BroadcastHandler) Create(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	b := &models.Broadcast{
		Message:    req.Message,
		ImageURL:   req.ImageURL,
		Recipients: req.Recipients,
	}
	if err := h.db.CreateBroadcast(c.Request.Context(), b); err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Update overwrites message, image and recipients. The optional ?when= and
// ?status= query parameters also set the schedule and status.
func (h *BroadcastHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var when *time.Time
	if raw := c.Query("when"); raw != "" {
		t, err := scheduler.ParseWhen(raw, time.UTC)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Fecha 'when' inválida")
			return
		}
		when = &t
	}
	status := models.BroadcastStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondError(c, http.StatusBadRequest, "Estado inválido")
		return
	}

	ctx := c.Request.Context()
	b, err := h.db.GetBroadcastByID(ctx, id)
	if err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}

	b.Message = req.Message
	b.ImageURL = req.ImageURL
	b.Recipients = req.Recipients
	if when != nil {
		b.ScheduledTime = when
	}
	if status != "" {
		b.Status = status
	}

	if err := h.db.SaveBroadcast(ctx, b); err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Schedule handles POST /difusiones/programar?id=&when= (or daily_at=HH:MM,
// or cron=<expr>). It only records the time; nothing is sent.
func (h *BroadcastHandler) Schedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}

	when, err := scheduler.Resolve(scheduler.Request{
		When:    c.Query("when"),
		DailyAt: c.Query("daily_at"),
		Cron:    c.Query("cron"),
	}, h.now().UTC())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.db.ScheduleBroadcast(c.Request.Context(), uint(id), when)
	if err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Send relays a stored broadcast now. The broadcast becomes "sent" when every
// recipient succeeded and "failed" otherwise.
func (h *BroadcastHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	b, err := h.db.GetBroadcastByID(ctx, id)
	if err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	if len(b.Recipients) == 0 {
		respondError(c, http.StatusBadRequest, "La difusión no tiene destinatarios")
		return
	}

	msg := whatsapp.Message{Text: b.Message}
	if b.ImageURL != nil {
		msg.ImageURL = *b.ImageURL
	}

	results, err := h.sender.Send(ctx, msg, b.Recipients)
	if err != nil {
		if errors.Is(err, whatsapp.ErrNotConfigured) {
			respondError(c, http.StatusInternalServerError, whatsappNotConfigured)
			return
		}
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}

	failed := whatsapp.AnyFailed(results) || len(results) == 0
	if failed {
		b.Status = models.BroadcastStatusFailed
	} else {
		b.Status = models.BroadcastStatusSent
	}
	if err := h.db.SaveBroadcast(ctx, b); err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	log.Printf("[broadcast] id=%d recipients=%d status=%s", b.ID, len(results), b.Status)

	resp := relayResponse(results)
	resp["broadcast"] = b
	c.JSON(http.StatusOK, resp)
}

// Delete removes a broadcast
func (h *BroadcastHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteBroadcast(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, broadcastNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
