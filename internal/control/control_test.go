package control_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"crm-backend/internal/control"
	"crm-backend/internal/models"
	"crm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*control.Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t).DB()
	return control.NewService(db), db
}

func TestGetOrCreateVariables_Defaults(t *testing.T) {
	svc, _ := newService(t)

	vars, err := svc.GetOrCreateVariables(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint(models.ControlVariablesID), vars.ID)
	assert.Equal(t, 1.5, vars.CoeficienteRegular)
	assert.Equal(t, 7, vars.DiasNuevos)
	assert.Equal(t, 2, vars.PedidosActivoFrecuente)
	assert.Equal(t, 1, vars.PedidosNuevo)
	assert.Equal(t, 5, vars.PedidosVIP)
}

func TestGetOrCreateVariables_ConcurrentFirstCalls(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GetOrCreateVariables(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	require.NoError(t, db.Model(&models.ControlVariables{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateVariables_OverwritesAllFields(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	updated, err := svc.UpdateVariables(ctx, control.VariablesInput{
		CoeficienteRegular:     2,
		DiasNuevos:             10,
		PedidosActivoFrecuente: 3,
		PedidosNuevo:           0,
		PedidosVIP:             8,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.PedidosNuevo)

	again, err := svc.GetOrCreateVariables(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, again.CoeficienteRegular)
	assert.Equal(t, 10, again.DiasNuevos)
	assert.Equal(t, 3, again.PedidosActivoFrecuente)
	assert.Equal(t, 0, again.PedidosNuevo)
	assert.Equal(t, 8, again.PedidosVIP)

	var count int64
	require.NoError(t, db.Model(&models.ControlVariables{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedFrequenciesIfNeeded_Idempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedFrequenciesIfNeeded(ctx))
	require.NoError(t, svc.SeedFrequenciesIfNeeded(ctx))

	freqs, err := svc.ListFrequencies(ctx)
	require.NoError(t, err)
	require.Len(t, freqs, 5)

	want := [][2]float64{{10, 15}, {20, 30}, {30, 45}, {50, 75}, {60, 90}}
	for i, f := range freqs {
		assert.Equal(t, int(want[i][0]), f.Frecuencia)
		assert.Equal(t, want[i][1], f.FrecuenciaCoef)
	}
}

func TestSeedFrequenciesIfNeeded_Concurrent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.SeedFrequenciesIfNeeded(ctx))
		}()
	}
	wg.Wait()

	freqs, err := svc.ListFrequencies(ctx)
	require.NoError(t, err)
	assert.Len(t, freqs, 5)
}

func TestUpdateFrequency(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedFrequenciesIfNeeded(ctx))

	freqs, err := svc.ListFrequencies(ctx)
	require.NoError(t, err)

	updated, err := svc.UpdateFrequency(ctx, freqs[0].ID, control.FrequencyInput{Frecuencia: 70, FrecuenciaCoef: 100})
	require.NoError(t, err)
	assert.Equal(t, 70, updated.Frecuencia)

	freqs, err = svc.ListFrequencies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70, freqs[len(freqs)-1].Frecuencia, "list stays ordered by frecuencia")

	_, err = svc.UpdateFrequency(ctx, 999, control.FrequencyInput{Frecuencia: 1, FrecuenciaCoef: 1})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSnapshot(t *testing.T) {
	svc, _ := newService(t)

	vars, freqs, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, vars.DiasNuevos)
	assert.Len(t, freqs, 5)
}
