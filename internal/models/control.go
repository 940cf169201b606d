package models

import "time"

// ControlVariablesID is the primary key of the single control_variables row
const ControlVariablesID = 1

// ControlVariables holds the churn classifier thresholds. Only the row with
// ID ControlVariablesID is ever read or written.
type ControlVariables struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	CoeficienteRegular     float64   `gorm:"not null" json:"coeficiente_regular"`
	DiasNuevos             int       `gorm:"not null" json:"dias_nuevos"`
	PedidosActivoFrecuente int       `gorm:"not null" json:"pedidos_activo_frecuente"`
	PedidosNuevo           int       `gorm:"not null" json:"pedidos_nuevo"` // stored and exposed, not used by the classifier
	PedidosVIP             int       `gorm:"column:pedidos_vip;not null" json:"pedidos_vip"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name
func (ControlVariables) TableName() string {
	return "control_variables"
}

// DefaultControlVariables returns the singleton with its documented defaults
func DefaultControlVariables() ControlVariables {
	return ControlVariables{
		ID:                     ControlVariablesID,
		CoeficienteRegular:     1.5,
		DiasNuevos:             7,
		PedidosActivoFrecuente: 2,
		PedidosNuevo:           1,
		PedidosVIP:             5,
	}
}

// ControlFrequency maps an order-frequency band (days) to a coefficient
type ControlFrequency struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Frecuencia     int     `gorm:"not null;index" json:"frecuencia"`
	FrecuenciaCoef float64 `gorm:"not null" json:"frecuencia_coef"`
}

// TableName specifies the table name
func (ControlFrequency) TableName() string {
	return "control_frequencies"
}

// DefaultControlFrequencies returns the rows seeded into an empty lookup table.
// IDs are fixed so that concurrent seeding collides on the primary key.
func DefaultControlFrequencies() []ControlFrequency {
	return []ControlFrequency{
		{ID: 1, Frecuencia: 10, FrecuenciaCoef: 15},
		{ID: 2, Frecuencia: 20, FrecuenciaCoef: 30},
		{ID: 3, Frecuencia: 30, FrecuenciaCoef: 45},
		{ID: 4, Frecuencia: 50, FrecuenciaCoef: 75},
		{ID: 5, Frecuencia: 60, FrecuenciaCoef: 90},
	}
}
