package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crm-backend/internal/database"
	"crm-backend/internal/importer"
	"crm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Fecha,Tipo,Vendedor,Descripción,Categoria de Gasto,Contacto,Estado,M. de Pago,Valor\n"

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"$1.234,56 ARS", 1234.56},
		{"1.000", 1000},
		{"-250,5", -250.5},
		{"$ 12", 12},
		{"", 0},
		{"  ", 0},
	}

	for _, tt := range tests {
		got, err := importer.ParseValue(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.InDelta(t, tt.want, got, 1e-9, tt.raw)
	}

	_, err := importer.ParseValue("doce")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := importer.ParseDate("05/02/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = importer.ParseDate("2024-02-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), got)

	_, err = importer.ParseDate("2024/02/05")
	assert.Error(t, err)
	_, err = importer.ParseDate("")
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	csvData := "\uFEFF" + header +
		"01/01/2024,Venta,Juan,Pedido 1,,Ana,Pagada,Efectivo,\"$1.234,56 ARS\"\n" +
		",,,,,,,,\n" +
		"2024-01-31,Gasto,,Flete,Logística, ,Pendiente,Transferencia,-500\n"

	movements, err := importer.Read(strings.NewReader(csvData), importer.Options{})
	require.NoError(t, err)
	require.Len(t, movements, 2)

	first := movements[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Venta", first.Type)
	require.NotNil(t, first.Seller)
	assert.Equal(t, "Juan", *first.Seller)
	assert.Equal(t, "Pedido 1", first.Description)
	assert.Equal(t, "Ana", first.Contact)
	assert.Equal(t, "Efectivo", first.PaymentMethod)
	assert.InDelta(t, 1234.56, first.Value, 1e-9)

	second := movements[1]
	assert.Nil(t, second.Seller)
	assert.Equal(t, "", second.Contact)
	assert.Equal(t, "Logística", second.ExpenseCategory)
	assert.Equal(t, -500.0, second.Value)
}

func TestRead_HeaderAliasesAndDelimiter(t *testing.T) {
	csvData := "Fecha;Tipo;Descripcion;Categoría de Gasto;Contacto;Medio de Pago;Importe\n" +
		"10/03/2024;Venta;Algo;;Beto;Tarjeta;\"2.000,00\"\n"

	movements, err := importer.Read(strings.NewReader(csvData), importer.Options{Comma: ';'})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "Algo", movements[0].Description)
	assert.Equal(t, "Tarjeta", movements[0].PaymentMethod)
	assert.Equal(t, 2000.0, movements[0].Value)
}

func TestRead_BadDateReportsLine(t *testing.T) {
	csvData := header +
		"01/01/2024,Venta,,,,Ana,,,100\n" +
		"31-31-2024,Venta,,,,Ana,,,100\n"

	_, err := importer.Read(strings.NewReader(csvData), importer.Options{})
	var perr *importer.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, "date", perr.Field)
}

func TestRead_MissingDateColumn(t *testing.T) {
	_, err := importer.Read(strings.NewReader("Tipo,Valor\nVenta,1\n"), importer.Options{})
	assert.Error(t, err)
}

func TestImport_AbortsWithoutCommitting(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	csvData := header +
		"01/01/2024,Venta,,,,Ana,,,100\n" +
		"02/01/2024,Venta,,,,Ana,,,no-number\n"

	n, err := importer.Import(ctx, db, strings.NewReader(csvData), importer.Options{}, 1, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, n)

	movements, err := db.ListMovements(ctx, database.MovementFilters{})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestImport_InsertsAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	csvData := header +
		"01/01/2024,Venta,,,,Ana,,,100\n" +
		"02/01/2024,Venta,,,,Beto,,,200\n" +
		"03/01/2024,Venta,,,,Ana,,,300\n"

	var progress []int
	n, err := importer.Import(ctx, db, strings.NewReader(csvData), importer.Options{}, 2, func(k int) {
		progress = append(progress, k)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{2, 1}, progress)

	movements, err := db.AllMovements(ctx)
	require.NoError(t, err)
	assert.Len(t, movements, 3)
}
