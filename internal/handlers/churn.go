package handlers

import (
	"context"
	"net/http"

	"crm-backend/internal/control"
	"crm-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const frequencyNotFound = "Frecuencia no encontrada"

// ChurnReporter produces the churn report
type ChurnReporter interface {
	Report(ctx context.Context) ([]models.ChurnRow, error)
}

// ChurnHandler serves /churn and its control tables
type ChurnHandler struct {
	reporter ChurnReporter
	control  *control.Service
}

// NewChurnHandler creates a churn handler
func NewChurnHandler(reporter ChurnReporter, ctrl *control.Service) *ChurnHandler {
	return &ChurnHandler{reporter: reporter, control: ctrl}
}

// Every field is required: an update replaces the whole row.
type variablesRequest struct {
	CoeficienteRegular     *float64 `json:"coeficiente_regular" binding:"required"`
	DiasNuevos             *int     `json:"dias_nuevos" binding:"required"`
	PedidosActivoFrecuente *int     `json:"pedidos_activo_frecuente" binding:"required"`
	PedidosNuevo           *int     `json:"pedidos_nuevo" binding:"required"`
	PedidosVIP             *int     `json:"pedidos_vip" binding:"required"`
}

type frequencyRequest struct {
	Frecuencia     *int     `json:"frecuencia" binding:"required"`
	FrecuenciaCoef *float64 `json:"frecuencia_coef" binding:"required"`
}

// Report runs the classifier over the current movements
func (h *ChurnHandler) Report(c *gin.Context) {
	rows, err := h.reporter.Report(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetVariables returns the control variables, creating the defaults if needed
func (h *ChurnHandler) GetVariables(c *gin.Context) {
	vars, err := h.control.GetOrCreateVariables(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, vars)
}

// UpdateVariables overwrites every control variable
func (h *ChurnHandler) UpdateVariables(c *gin.Context) {
	var req variablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	vars, err := h.control.UpdateVariables(c.Request.Context(), control.VariablesInput{
		CoeficienteRegular:     *req.CoeficienteRegular,
		DiasNuevos:             *req.DiasNuevos,
		PedidosActivoFrecuente: *req.PedidosActivoFrecuente,
		PedidosNuevo:           *req.PedidosNuevo,
		PedidosVIP:             *req.PedidosVIP,
	})
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, vars)
}

// ListFrequencies seeds the defaults into an empty table, then lists it
func (h *ChurnHandler) ListFrequencies(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.control.SeedFrequenciesIfNeeded(ctx); err != nil {
		respondStoreError(c, err, "")
		return
	}
	freqs, err := h.control.ListFrequencies(ctx)
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, freqs)
}

// UpdateFrequency overwrites one frequency band
func (h *ChurnHandler) UpdateFrequency(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req frequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	freq, err := h.control.UpdateFrequency(c.Request.Context(), id, control.FrequencyInput{
		Frecuencia:     *req.Frecuencia,
		FrecuenciaCoef: *req.FrecuenciaCoef,
	})
	if err != nil {
		respondStoreError(c, err, frequencyNotFound)
		return
	}
	c.JSON(http.StatusOK, freq)
}
