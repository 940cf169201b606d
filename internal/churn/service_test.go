package churn_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm-backend/internal/churn"
	"crm-backend/internal/control"
	"crm-backend/internal/models"
	"crm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ReportFromDatabase(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	require.NoError(t, db.CreateClient(ctx, &models.Client{Name: "Ana", Phone: "+54 9 11 5555"}))
	for _, m := range []models.Movement{
		{Contact: "Ana", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Type: "venta", Value: 100},
		{Contact: " Ana", Date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Type: "venta", Value: 300},
		{Contact: "", Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), Type: "gasto", Value: -20},
	} {
		m := m
		require.NoError(t, db.CreateMovement(ctx, &m))
	}

	ctrl := control.NewService(db.DB())
	svc := churn.NewService(db, ctrl, db)
	svc.SetClock(func() time.Time { return time.Date(2024, 2, 5, 15, 0, 0, 0, time.UTC) })

	rows, err := svc.Report(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	got := map[string]models.ChurnRow{}
	for _, r := range rows {
		got[r.Contacto] = r
	}

	ana := got["Ana"]
	assert.Equal(t, models.ChurnToBeLoyalized, ana.Clasificacion)
	assert.Equal(t, 5, ana.DiasUltimoPedido)
	require.NotNil(t, ana.Telefono)
	assert.Equal(t, "+54 9 11 5555", *ana.Telefono)

	none := got[models.NoContactKey]
	assert.Equal(t, 1, none.CantidadPedidos)
	assert.Nil(t, none.Telefono)

	// the first report materializes the configuration
	freqs, err := ctrl.ListFrequencies(ctx)
	require.NoError(t, err)
	assert.Len(t, freqs, 5)
}

type failingConfig struct{}

func (failingConfig) Snapshot(context.Context) (*models.ControlVariables, []models.ControlFrequency, error) {
	return nil, nil, errors.New("db down")
}

type staticMovements []models.Movement

func (s staticMovements) AllMovements(context.Context) ([]models.Movement, error) {
	return s, nil
}

type failingPhones struct{}

func (failingPhones) ClientPhonesByName(context.Context) (map[string]string, error) {
	return nil, errors.New("clients unavailable")
}

type staticConfig struct{}

func (staticConfig) Snapshot(context.Context) (*models.ControlVariables, []models.ControlFrequency, error) {
	vars := models.DefaultControlVariables()
	return &vars, models.DefaultControlFrequencies(), nil
}

func TestService_ConfigErrorPropagates(t *testing.T) {
	svc := churn.NewService(staticMovements{}, failingConfig{}, nil)

	_, err := svc.Report(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestService_PhoneLookupFailureIsNotFatal(t *testing.T) {
	movements := staticMovements{{Contact: "Ana", Date: time.Now().UTC(), Value: 1}}
	svc := churn.NewService(movements, staticConfig{}, failingPhones{})

	rows, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Telefono)
}
