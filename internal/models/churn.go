package models

import "time"

// Churn classification labels
const (
	ChurnLoyal         = "1.1" // fidelizados
	ChurnToBeLoyalized = "1.2" // a fidelizar
	ChurnLostLoyal     = "2.1" // fidelizados perdidos
	ChurnLostNonLoyal  = "2.2" // no fidelizados perdidos
	ChurnNew           = "4.1" // nuevos
)

// NoContactKey groups movements whose contact is empty
const NoContactKey = "(no contact)"

// ChurnRow is one line of the churn report. It is derived, never persisted.
type ChurnRow struct {
	Contacto            string     `json:"contacto"`
	FechaCumple         *time.Time `json:"fecha_cumple"`
	Telefono            *string    `json:"telefono"`
	Direccion           *string    `json:"direccion"`
	Clasificacion       string     `json:"clasificacion"`
	CantidadPedidos     int        `json:"cantidad_pedidos"`
	FacturacionTotal    float64    `json:"facturacion_total"`
	FacturacionPromedio float64    `json:"facturacion_promedio"`
	DiasUltimoPedido    int        `json:"dias_ultimo_pedido"`
	PrimerPedido        time.Time  `json:"primer_pedido"`
	UltimoPedido        time.Time  `json:"ultimo_pedido"`
	Frecuencia          float64    `json:"frecuencia"`
	FrecuenciaCoef      float64    `json:"frecuencia_coef"`
}
