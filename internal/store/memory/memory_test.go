package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

func TestReadingStoreListOrdering(t *testing.T) {
	s := NewReadingStore()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s.Seed(
		models.Reading{Location: models.LocationMainEntrance, PeopleCount: 1, Timestamp: base},
		models.Reading{Location: models.LocationMainEntrance, PeopleCount: 2, Timestamp: base.Add(time.Minute)},
		models.Reading{Location: models.LocationMainEntrance, PeopleCount: 3, Timestamp: base.Add(2 * time.Minute)},
	)

	newest, err := s.List(context.Background(), store.ListOptions{OrderBy: "-timestamp"})
	require.NoError(t, err)
	require.Equal(t, 3, newest[0].PeopleCount)

	oldest, err := s.List(context.Background(), store.ListOptions{OrderBy: "timestamp"})
	require.NoError(t, err)
	require.Equal(t, 1, oldest[0].PeopleCount)

	limited, err := s.List(context.Background(), store.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)

	_, err = s.List(context.Background(), store.ListOptions{OrderBy: "people_count"})
	require.Error(t, err)
}

func TestReadingStoreCreateValidates(t *testing.T) {
	s := NewReadingStore()

	_, err := s.Create(context.Background(), models.Reading{Location: "lobby", PeopleCount: 1})
	require.Error(t, err)

	_, err = s.Create(context.Background(), models.Reading{Location: models.LocationFoodCourt, PeopleCount: -1})
	require.Error(t, err)

	created, err := s.Create(context.Background(), models.Reading{Location: models.LocationFoodCourt, PeopleCount: 4})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
}

func TestReadingStoreUpdateAlertFlag(t *testing.T) {
	s := NewReadingStore()
	created, err := s.Create(context.Background(), models.Reading{Location: models.LocationFoodCourt, PeopleCount: 4})
	require.NoError(t, err)

	triggered := true
	updated, err := s.Update(context.Background(), created.ID, store.ReadingPatch{AlertTriggered: &triggered})
	require.NoError(t, err)
	require.True(t, updated.AlertTriggered)

	_, err = s.Update(context.Background(), "missing", store.ReadingPatch{AlertTriggered: &triggered})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSettingsStoreDeleteAllRecreate(t *testing.T) {
	s := NewSettingsStore()
	ctx := context.Background()

	first, err := s.Create(ctx, models.ThresholdConfig{
		Location: models.LocationMainEntrance, MaxCapacity: 100, WarningThreshold: 0.8, CriticalThreshold: 0.9,
	})
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	listed, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, listed)

	_, err = s.Create(ctx, models.ThresholdConfig{
		Location: models.LocationMainEntrance, MaxCapacity: 120, WarningThreshold: 0.7, CriticalThreshold: 0.9,
	})
	require.NoError(t, err)

	listed, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, 120, listed[0].MaxCapacity)
}

func TestSettingsStoreCreateValidates(t *testing.T) {
	s := NewSettingsStore()
	_, err := s.Create(context.Background(), models.ThresholdConfig{
		Location: models.LocationMainEntrance, MaxCapacity: 0, WarningThreshold: 0.8, CriticalThreshold: 0.9,
	})
	require.Error(t, err)
}
