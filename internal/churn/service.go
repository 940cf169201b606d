package churn

import (
	"context"
	"fmt"
	"log"
	"time"

	"crm-backend/internal/models"
)

// MovementSource provides the full movement history
type MovementSource interface {
	AllMovements(ctx context.Context) ([]models.Movement, error)
}

// ConfigSource provides the classifier thresholds, creating defaults if needed
type ConfigSource interface {
	Snapshot(ctx context.Context) (*models.ControlVariables, []models.ControlFrequency, error)
}

// PhoneLookup maps trimmed client names to phone numbers
type PhoneLookup interface {
	ClientPhonesByName(ctx context.Context) (map[string]string, error)
}

// Service runs the classifier over a fresh snapshot on every call
type Service struct {
	movements MovementSource
	config    ConfigSource
	phones    PhoneLookup
	now       func() time.Time
}

// NewService creates a churn service. phones may be nil.
func NewService(movements MovementSource, config ConfigSource, phones PhoneLookup) *Service {
	return &Service{
		movements: movements,
		config:    config,
		phones:    phones,
		now:       time.Now,
	}
}

// SetClock overrides the processing time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Report loads configuration and movements and returns the churn rows
func (s *Service) Report(ctx context.Context) ([]models.ChurnRow, error) {
	vars, freqs, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load churn configuration: %w", err)
	}

	movements, err := s.movements.AllMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}

	rows := Classify(movements, *vars, freqs, s.now())

	if s.phones != nil && len(rows) > 0 {
		phones, err := s.phones.ClientPhonesByName(ctx)
		if err != nil {
			// enrichment only
			log.Printf("[churn] phone lookup failed: %v", err)
		} else {
			for i := range rows {
				if phone, ok := phones[rows[i].Contacto]; ok {
					p := phone
					rows[i].Telefono = &p
				}
			}
		}
	}

	return rows, nil
}
