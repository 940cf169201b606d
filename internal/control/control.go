// Package control stores the tunable thresholds used by the churn classifier:
// the singleton control variables row and the frequency lookup table.
package control

import (
	"context"
	"errors"
	"fmt"

	"crm-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles control variables and frequency bands
type Service struct {
	db *gorm.DB
}

// NewService creates a new control service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// VariablesInput is a full overwrite of the control variables
type VariablesInput struct {
	CoeficienteRegular     float64 `json:"coeficiente_regular"`
	DiasNuevos             int     `json:"dias_nuevos"`
	PedidosActivoFrecuente int     `json:"pedidos_activo_frecuente"`
	PedidosNuevo           int     `json:"pedidos_nuevo"`
	PedidosVIP             int     `json:"pedidos_vip"`
}

// FrequencyInput is a full overwrite of one frequency band
type FrequencyInput struct {
	Frecuencia     int     `json:"frecuencia"`
	FrecuenciaCoef float64 `json:"frecuencia_coef"`
}

// GetOrCreateVariables returns the singleton row, inserting the defaults first
// if it does not exist. The insert is a no-op on primary key conflict, so
// concurrent first calls converge on one row.
func (s *Service) GetOrCreateVariables(ctx context.Context) (*models.ControlVariables, error) {
	db := s.db.WithContext(ctx)

	var vars models.ControlVariables
	err := db.First(&vars, models.ControlVariablesID).Error
	if err == nil {
		return &vars, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load control variables: %w", err)
	}

	defaults := models.DefaultControlVariables()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, fmt.Errorf("failed to create control variables: %w", err)
	}

	vars = models.ControlVariables{}
	if err := db.First(&vars, models.ControlVariablesID).Error; err != nil {
		return nil, fmt.Errorf("failed to load control variables: %w", err)
	}
	return &vars, nil
}

// UpdateVariables overwrites every field of the singleton row
func (s *Service) UpdateVariables(ctx context.Context, in VariablesInput) (*models.ControlVariables, error) {
	vars, err := s.GetOrCreateVariables(ctx)
	if err != nil {
		return nil, err
	}

	vars.CoeficienteRegular = in.CoeficienteRegular
	vars.DiasNuevos = in.DiasNuevos
	vars.PedidosActivoFrecuente = in.PedidosActivoFrecuente
	vars.PedidosNuevo = in.PedidosNuevo
	vars.PedidosVIP = in.PedidosVIP

	if err := s.db.WithContext(ctx).Save(vars).Error; err != nil {
		return nil, fmt.Errorf("failed to update control variables: %w", err)
	}
	return vars, nil
}

// SeedFrequenciesIfNeeded inserts the default bands when the table is empty.
// Seed rows carry fixed IDs and conflicting inserts are skipped, so repeated
// or concurrent calls never produce more than the default set.
func (s *Service) SeedFrequenciesIfNeeded(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.ControlFrequency{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count control frequencies: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := models.DefaultControlFrequencies()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed control frequencies: %w", err)
	}
	return nil
}

// ListFrequencies returns the lookup table ordered by ascending frecuencia
func (s *Service) ListFrequencies(ctx context.Context) ([]models.ControlFrequency, error) {
	freqs := []models.ControlFrequency{}
	err := s.db.WithContext(ctx).Order("frecuencia ASC").Order("id ASC").Find(&freqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list control frequencies: %w", err)
	}
	return freqs, nil
}

// UpdateFrequency overwrites an existing band. It returns an error wrapping
// gorm.ErrRecordNotFound when id is unknown.
func (s *Service) UpdateFrequency(ctx context.Context, id uint, in FrequencyInput) (*models.ControlFrequency, error) {
	db := s.db.WithContext(ctx)

	var freq models.ControlFrequency
	if err := db.First(&freq, id).Error; err != nil {
		return nil, fmt.Errorf("control frequency %d: %w", id, err)
	}

	freq.Frecuencia = in.Frecuencia
	freq.FrecuenciaCoef = in.FrecuenciaCoef
	if err := db.Save(&freq).Error; err != nil {
		return nil, fmt.Errorf("failed to update control frequency %d: %w", id, err)
	}
	return &freq, nil
}

// Snapshot loads the variables and the seeded lookup table in one call
func (s *Service) Snapshot(ctx context.Context) (*models.ControlVariables, []models.ControlFrequency, error) {
	vars, err := s.GetOrCreateVariables(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := s.SeedFrequenciesIfNeeded(ctx); err != nil {
		return nil, nil, err
	}
	freqs, err := s.ListFrequencies(ctx)
	if err != nil {
		return nil, nil, err
	}
	return vars, freqs, nil
}
