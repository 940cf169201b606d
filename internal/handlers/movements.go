package handlers

import (
	"net/http"
	"time"

	"crm-backend/internal/database"
	"crm-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const movementNotFound = "Movimiento no encontrado"

// MovementHandler serves /movimientos. Movements are never updated.
type MovementHandler struct {
	db *database.GormDB
}

// NewMovementHandler creates a movement handler
func NewMovementHandler(db *database.GormDB) *MovementHandler {
	return &MovementHandler{db: db}
}

type movementCreateRequest struct {
	Date            *flexTime `json:"date" binding:"required"`
	Type            string    `json:"type" binding:"required"`
	Seller          *string   `json:"seller"`
	Description     string    `json:"description"`
	ExpenseCategory string    `json:"expense_category"`
	Contact         string    `json:"contact"`
	Status          string    `json:"status"`
	PaymentMethod   string    `json:"payment_method"`
	Value           *float64  `json:"value" binding:"required"`
}

// List returns movements, most recent first, narrowed by
// ?tipo=&contacto=&q=&desde=YYYY-MM-DD&hasta=YYYY-MM-DD
func (h *MovementHandler) List(c *gin.Context) {
	filters := database.MovementFilters{
		Type:    c.Query("tipo"),
		Contact: c.Query("contacto"),
		Query:   c.Query("q"),
	}

	if desde := c.Query("desde"); desde != "" {
		from, err := time.Parse("2006-01-02", desde)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Fecha 'desde' inválida, use AAAA-MM-DD")
			return
		}
		filters.From = &from
	}
	if hasta := c.Query("hasta"); hasta != "" {
		to, err := time.Parse("2006-01-02", hasta)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Fecha 'hasta' inválida, use AAAA-MM-DD")
			return
		}
		// inclusive end date
		to = to.AddDate(0, 0, 1)
		filters.To = &to
	}

	movements, err := h.db.ListMovements(c.Request.Context(), filters)
	if err != nil {
		respondStoreError(c, err, movementNotFound)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// Get returns one movement
func (h *MovementHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.db.GetMovementByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, movementNotFound)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Create inserts a movement
func (h *MovementHandler) Create(c *gin.Context) {
	var req movementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	m := &models.Movement{
		Date:            req.Date.Time,
		Type:            req.Type,
		Seller:          req.Seller,
		Description:     req.Description,
		ExpenseCategory: req.ExpenseCategory,
		Contact:         req.Contact,
		Status:          req.Status,
		PaymentMethod:   req.PaymentMethod,
		Value:           *req.Value,
	}
	if err := h.db.CreateMovement(c.Request.Context(), m); err != nil {
		respondStoreError(c, err, movementNotFound)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete removes a movement
func (h *MovementHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteMovement(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, movementNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
