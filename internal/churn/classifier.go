// Package churn buckets contacts into loyalty/recency labels from their
// movement history.
package churn

import (
	"sort"
	"strings"
	"time"

	"crm-backend/internal/models"
)

// ContactKey normalizes a movement contact into its grouping key
func ContactKey(contact string) string {
	key := strings.TrimSpace(contact)
	if key == "" {
		return models.NoContactKey
	}
	return key
}

// Classify computes one ChurnRow per distinct contact. Rows come out in the
// order contacts are first seen in movements.
func Classify(movements []models.Movement, vars models.ControlVariables, freqs []models.ControlFrequency, today time.Time) []models.ChurnRow {
	today = dateOnly(today.UTC())

	var order []string
	groups := make(map[string][]models.Movement)
	for _, m := range movements {
		key := ContactKey(m.Contact)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	bands := sortedBands(freqs)

	rows := make([]models.ChurnRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, classifyGroup(key, groups[key], vars, bands, today))
	}
	return rows
}

func classifyGroup(key string, group []models.Movement, vars models.ControlVariables, bands []models.ControlFrequency, today time.Time) models.ChurnRow {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Date.Before(group[j].Date)
	})

	first := dateOnly(group[0].Date)
	last := dateOnly(group[len(group)-1].Date)
	count := len(group)

	var total float64
	for _, m := range group {
		total += m.Value
	}

	var freq float64
	if count > 1 {
		span := daysBetween(first, last)
		if span < 1 {
			span = 1
		}
		freq = float64(span) / float64(count-1)
	} else {
		freq = float64(vars.DiasNuevos)
	}

	daysSince := daysBetween(last, today)

	return models.ChurnRow{
		Contacto:            key,
		Clasificacion:       Label(count, daysSince, freq, vars),
		CantidadPedidos:     count,
		FacturacionTotal:    total,
		FacturacionPromedio: total / float64(count),
		DiasUltimoPedido:    daysSince,
		PrimerPedido:        first,
		UltimoPedido:        last,
		Frecuencia:          freq,
		FrecuenciaCoef:      Coefficient(freq, bands, vars.CoeficienteRegular),
	}
}

// Label applies the classification rules in priority order. A recency exactly
// equal to coeficiente_regular*frecuencia matches neither the active nor the
// lost branches.
func Label(count, daysSince int, freq float64, vars models.ControlVariables) string {
	window := vars.CoeficienteRegular * freq
	days := float64(daysSince)

	switch {
	case count >= vars.PedidosVIP && days < window:
		return models.ChurnLoyal
	case count >= vars.PedidosActivoFrecuente && days < window:
		return models.ChurnToBeLoyalized
	case days > window && count >= vars.PedidosActivoFrecuente:
		return models.ChurnLostLoyal
	case daysSince > vars.DiasNuevos:
		return models.ChurnLostNonLoyal
	default:
		return models.ChurnNew
	}
}

// Coefficient is a step lookup over bands ordered ascending by frecuencia:
// the last band not exceeding freq, or the first band when freq is below all
// of them. With no bands it falls back to freq*coeficienteRegular.
func Coefficient(freq float64, bands []models.ControlFrequency, coeficienteRegular float64) float64 {
	band, ok := Band(freq, bands)
	if !ok {
		return freq * coeficienteRegular
	}
	return band.FrecuenciaCoef
}

// Band returns the band selected for freq. ok is false when bands is empty.
func Band(freq float64, bands []models.ControlFrequency) (models.ControlFrequency, bool) {
	if len(bands) == 0 {
		return models.ControlFrequency{}, false
	}
	selected := bands[0]
	for _, b := range bands {
		if float64(b.Frecuencia) <= freq {
			selected = b
		}
	}
	return selected, true
}

func sortedBands(freqs []models.ControlFrequency) []models.ControlFrequency {
	bands := make([]models.ControlFrequency, len(freqs))
	copy(bands, freqs)
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].Frecuencia < bands[j].Frecuencia
	})
	return bands
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole days from a to b, both already truncated to dates
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
