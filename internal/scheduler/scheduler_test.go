package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func TestResolve_When(t *testing.T) {
	got, err := Resolve(Request{When: "2024-04-01T09:00:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), got)

	got, err = Resolve(Request{When: "2024-04-01T09:00:00-03:00"}, now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)))
}

func TestResolve_WhenTakesPrecedence(t *testing.T) {
	got, err := Resolve(Request{When: "2024-04-01 09:00", DailyAt: "10:00", Cron: "* * * * *"}, now)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
}

func TestResolve_DailyAt(t *testing.T) {
	got, err := Resolve(Request{DailyAt: "18:05"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 18, 5, 0, 0, time.UTC), got)

	got, err = Resolve(Request{DailyAt: "09:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), got, "past times roll to tomorrow")
}

func TestResolve_Cron(t *testing.T) {
	got, err := Resolve(Request{Cron: "0 8 * * 1"}, now) // Mondays 08:00
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC), got)
}

func TestResolve_Errors(t *testing.T) {
	_, err := Resolve(Request{}, now)
	assert.True(t, errors.Is(err, ErrNoSchedule))

	_, err = Resolve(Request{When: "mañana"}, now)
	assert.Error(t, err)

	_, err = Resolve(Request{DailyAt: "25:00"}, now)
	assert.Error(t, err)

	_, err = Resolve(Request{Cron: "not a cron"}, now)
	assert.Error(t, err)
}

func TestParseDailyAt(t *testing.T) {
	spec, err := ParseDailyAt("02:00")
	require.NoError(t, err)
	assert.Equal(t, "0 2 * * *", spec)

	_, err = ParseDailyAt("2pm")
	assert.Error(t, err)
}
