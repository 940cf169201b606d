package handlers

import (
	"net/http"
	"time"

	"crm-backend/internal/database"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the dashboard counters and the health check
type AdminHandler struct {
	db  *database.GormDB
	now func() time.Time
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(db *database.GormDB) *AdminHandler {
	return &AdminHandler{db: db, now: time.Now}
}

// GetStats returns the dashboard counters for the last 30 days
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.db.GetDashboardStats(c.Request.Context(), h.now().UTC())
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health reports liveness
func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   h.now(),
	})
}
