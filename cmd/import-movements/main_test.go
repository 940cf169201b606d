package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"crm-backend/internal/config"
	"crm-backend/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "Fecha,Tipo,Vendedor,Descripción,Categoria de Gasto,Contacto,Estado,M. de Pago,Valor\n" +
	"01/01/2024,Venta,Juan,Pedido,,Ana,Pagada,Efectivo,\"$1.234,56 ARS\"\n" +
	"02/01/2024,Venta,,,,Beto,,,500\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunImport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "crm.db")
	cfgPath := writeFile(t, dir, "crm.yaml", "database:\n  type: sqlite\n  sqlite:\n    path: "+dbPath+"\nlogging:\n  level: silent\n")
	csvPath := writeFile(t, dir, "mov.csv", sample)
	t.Setenv("DB_TYPE", "")
	t.Setenv("SQLITE_PATH", "")

	err := runImport(context.Background(), &importOptions{file: csvPath, configPath: cfgPath, delimiter: ",", batchSize: 1})
	require.NoError(t, err)

	db, err := database.Open(config.DatabaseConfig{Type: "sqlite", SQLite: config.SQLiteConfig{Path: dbPath}}, "silent")
	require.NoError(t, err)
	defer db.Close()

	movements, err := db.AllMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.InDelta(t, 1234.56, movements[0].Value, 1e-9)
}

func TestRunImport_DryRunDoesNotTouchDatabase(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "mov.csv", sample)

	err := runImport(context.Background(), &importOptions{file: csvPath, configPath: filepath.Join(dir, "missing.yaml"), delimiter: ",", dryRun: true})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunImport_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.csv", "Fecha,Valor\nnot-a-date,1\n")

	err := runImport(context.Background(), &importOptions{file: bad, delimiter: ","})
	assert.ErrorContains(t, err, "nothing was written")

	err = runImport(context.Background(), &importOptions{file: bad, delimiter: ";;"})
	assert.Error(t, err)

	err = runImport(context.Background(), &importOptions{file: filepath.Join(dir, "nope.csv"), delimiter: ","})
	assert.Error(t, err)
}
