package database

import (
	"context"
	"strings"
	"time"

	"crm-backend/internal/models"
)

// DashboardStats holds the counters shown on the dashboard
type DashboardStats struct {
	ClientesTotales        int64   `json:"clientes_totales"`
	ClientesSinContacto30d int64   `json:"clientes_sin_contacto_30d"`
	DifusionesEnviadas     int64   `json:"difusiones_enviadas"`
	DifusionesProgramadas  int64   `json:"difusiones_programadas"`
	IngresosTotales        float64 `json:"ingresos_totales"`
	Ingresos30d            float64 `json:"ingresos_30d"`
	Pedidos30d             int     `json:"pedidos_30d"`
	TicketPromedio30d      float64 `json:"ticket_promedio_30d"`
	ClientesActivos30d     int     `json:"clientes_activos_30d"`
}

// GetDashboardStats computes the dashboard counters as of now
func (gdb *GormDB) GetDashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	db := gdb.db.WithContext(ctx)
	stats := &DashboardStats{}
	cutoff := now.AddDate(0, 0, -30)

	if err := db.Model(&models.Client{}).Count(&stats.ClientesTotales).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Client{}).
		Where("last_contact IS NULL OR last_contact < ?", cutoff).
		Count(&stats.ClientesSinContacto30d).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Broadcast{}).
		Where("status = ?", models.BroadcastStatusSent).
		Count(&stats.DifusionesEnviadas).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Broadcast{}).
		Where("status = ?", models.BroadcastStatusScheduled).
		Count(&stats.DifusionesProgramadas).Error; err != nil {
		return nil, err
	}

	var movements []models.Movement
	if err := db.Select("date, contact, value").Find(&movements).Error; err != nil {
		return nil, err
	}

	active := make(map[string]struct{})
	for _, m := range movements {
		stats.IngresosTotales += m.Value
		if m.Date.Before(cutoff) {
			continue
		}
		stats.Pedidos30d++
		stats.Ingresos30d += m.Value
		if contact := strings.TrimSpace(m.Contact); contact != "" {
			active[contact] = struct{}{}
		}
	}
	stats.ClientesActivos30d = len(active)
	if stats.Pedidos30d > 0 {
		stats.TicketPromedio30d = stats.Ingresos30d / float64(stats.Pedidos30d)
	}

	return stats, nil
}
