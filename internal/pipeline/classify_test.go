package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crowdwatch-monitor/internal/models"
)

func TestClassifyBoundariesAreInclusive(t *testing.T) {
	cfg := &models.ThresholdConfig{
		Location:          models.LocationMainEntrance,
		MaxCapacity:       100,
		WarningThreshold:  0.8,
		CriticalThreshold: 0.9,
	}

	cases := []struct {
		count int
		want  models.Status
	}{
		{0, models.StatusNormal},
		{79, models.StatusNormal},
		{80, models.StatusWarning},
		{89, models.StatusWarning},
		{90, models.StatusCritical},
		{100, models.StatusCritical},
		{250, models.StatusCritical},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.count, cfg), "count %d", tc.count)
	}
}

func TestClassifyNilConfigAlwaysNormal(t *testing.T) {
	for _, count := range []int{0, 50, 10000} {
		require.Equal(t, models.StatusNormal, Classify(count, nil), "count %d", count)
	}
}

func TestClassifyEqualThresholds(t *testing.T) {
	// warning == critical: the critical bucket wins at the shared boundary.
	cfg := &models.ThresholdConfig{
		Location:          models.LocationFoodCourt,
		MaxCapacity:       50,
		WarningThreshold:  0.9,
		CriticalThreshold: 0.9,
	}
	require.Equal(t, models.StatusNormal, Classify(44, cfg))
	require.Equal(t, models.StatusCritical, Classify(45, cfg))
}

func TestSettingsByLocationLaterEntriesWin(t *testing.T) {
	settings := []models.ThresholdConfig{
		{Location: models.LocationMainEntrance, MaxCapacity: 100},
		{Location: models.LocationMainEntrance, MaxCapacity: 200},
	}
	byLoc := SettingsByLocation(settings)
	require.Equal(t, 200, byLoc[models.LocationMainEntrance].MaxCapacity)
}
