// Package importer loads movements from the spreadsheet export (CSV) used
// before the CRM existed. A file is parsed completely before anything is
// written, so a single bad row aborts the whole import.
package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"crm-backend/internal/models"

	"github.com/shopspring/decimal"
)

// columns maps each movement field to the header names accepted for it
var columns = map[string][]string{
	"date":             {"Fecha", "fecha"},
	"type":             {"Tipo"},
	"seller":           {"Vendedor"},
	"description":      {"Descripción", "Descripcion"},
	"expense_category": {"Categoria de Gasto", "Categoría de Gasto"},
	"contact":          {"Contacto"},
	"status":           {"Estado"},
	"payment_method":   {"M. de Pago", "Medio de Pago"},
	"value":            {"Valor", "Importe"},
}

var dateLayouts = []string{"02/01/2006", "2006-01-02"}

var valueReplacer = strings.NewReplacer("$", "", ".", "", " ", "", "ARS", "")

// ParseError points at the offending line of the source file
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options controls CSV decoding
type Options struct {
	Comma rune // field delimiter, ',' when zero
}

// Read parses every row of r. Fully blank rows are skipped. The first date or
// value that cannot be parsed aborts with a *ParseError and no movements.
func Read(r io.Reader, opts Options) ([]models.Movement, error) {
	br := bufio.NewReader(r)
	if first, _, err := br.ReadRune(); err == nil && first != '\uFEFF' {
		_ = br.UnreadRune()
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := headerIndex(header)
	if _, ok := index["date"]; !ok {
		return nil, errors.New("missing date column (Fecha)")
	}

	movements := []models.Movement{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if blank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		m, err := parseRecord(record, index, line)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	return movements, nil
}

func parseRecord(record []string, index map[string]int, line int) (models.Movement, error) {
	get := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawDate := get("date")
	date, err := ParseDate(rawDate)
	if err != nil {
		return models.Movement{}, &ParseError{Line: line, Field: "date", Value: rawDate, Err: err}
	}

	rawValue := get("value")
	value, err := ParseValue(rawValue)
	if err != nil {
		return models.Movement{}, &ParseError{Line: line, Field: "value", Value: rawValue, Err: err}
	}

	m := models.Movement{
		Date:            date,
		Type:            get("type"),
		Description:     get("description"),
		ExpenseCategory: get("expense_category"),
		Contact:         get("contact"),
		Status:          get("status"),
		PaymentMethod:   get("payment_method"),
		Value:           value,
	}
	if seller := get("seller"); seller != "" {
		m.Seller = &seller
	}
	return m, nil
}

// ParseDate accepts dd/mm/yyyy and yyyy-mm-dd
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("expected dd/mm/yyyy or yyyy-mm-dd")
}

// ParseValue parses an Argentine-formatted amount such as "$1.234,56 ARS".
// Dots are thousand separators and the comma is the decimal mark. An empty
// value is zero.
func ParseValue(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(valueReplacer.Replace(raw), ",", ".")
	if cleaned == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("not a number after cleanup (%q)", cleaned)
	}
	return d.InexactFloat64(), nil
}

func headerIndex(header []string) map[string]int {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	index := make(map[string]int, len(columns))
	for field, aliases := range columns {
		for _, alias := range aliases {
			if i, ok := positions[alias]; ok {
				index[field] = i
				break
			}
		}
	}
	return index
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Store persists parsed movements atomically
type Store interface {
	CreateMovementsInTx(ctx context.Context, movements []models.Movement, batchSize int, onBatch func(n int)) error
}

// Import parses r and inserts every movement in one transaction. Nothing is
// written if parsing fails.
func Import(ctx context.Context, store Store, r io.Reader, opts Options, batchSize int, onBatch func(n int)) (int, error) {
	movements, err := Read(r, opts)
	if err != nil {
		return 0, err
	}
	if len(movements) == 0 {
		return 0, nil
	}
	if err := store.CreateMovementsInTx(ctx, movements, batchSize, onBatch); err != nil {
		return 0, fmt.Errorf("failed to insert movements: %w", err)
	}
	return len(movements), nil
}
