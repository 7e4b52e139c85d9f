package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"crowdwatch-monitor/internal/feed"
	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
	"crowdwatch-monitor/internal/store/memory"
)

type stubSource struct {
	text string
	err  error
}

func (s *stubSource) Fetch(context.Context) (string, error) {
	return s.text, s.err
}

// blockingSource holds a fetch open until released, so tests can observe an
// in-flight cycle.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingSource() *blockingSource {
	return &blockingSource{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (s *blockingSource) Fetch(ctx context.Context) (string, error) {
	s.entered <- struct{}{}
	select {
	case <-s.release:
		return "", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type failingReadingStore struct{}

func (failingReadingStore) List(context.Context, store.ListOptions) ([]models.Reading, error) {
	return nil, errors.New("store down")
}

func (failingReadingStore) Create(context.Context, models.Reading) (models.Reading, error) {
	return models.Reading{}, errors.New("store down")
}

func (failingReadingStore) Update(context.Context, string, store.ReadingPatch) (models.Reading, error) {
	return models.Reading{}, errors.New("store down")
}

func (failingReadingStore) Delete(context.Context, string) (bool, error) {
	return false, errors.New("store down")
}

func testScheduler(readings store.ReadingStore, settings store.SettingsStore, source feed.Source) *Scheduler {
	return NewScheduler(SchedulerOptions{
		Readings: readings,
		Settings: settings,
		Source:   source,
		Logger:   zerolog.Nop(),
		Interval: time.Minute,
	})
}

func TestSchedulerSnapshotAvailableBeforeFirstCycle(t *testing.T) {
	s := testScheduler(memory.NewReadingStore(), memory.NewSettingsStore(), &stubSource{})

	snap := s.Snapshot()
	require.NotNil(t, snap)
	require.Len(t, snap.Locations, len(models.AllLocations()))
	require.Equal(t, 0, snap.Total)
	require.Equal(t, models.StatusNormal, snap.OverallStatus)
}

func TestRefreshBuildsSnapshotFromStoreAndFeed(t *testing.T) {
	readings := memory.NewReadingStore()
	readings.Seed(
		models.Reading{Location: models.LocationFoodCourt, PeopleCount: 40, Timestamp: time.Now()},
		models.Reading{Location: models.LocationMainEntrance, PeopleCount: 5, Timestamp: time.Now().Add(-time.Minute)},
	)
	settings := memory.NewSettingsStore()
	_, err := settings.Create(context.Background(), models.ThresholdConfig{
		Location: models.LocationFoodCourt, MaxCapacity: 50, WarningThreshold: 0.8, CriticalThreshold: 0.9,
	})
	require.NoError(t, err)

	s := testScheduler(readings, settings, &stubSource{text: "img.jpg,2025-01-01T10:00:00Z,15"})

	require.True(t, s.Refresh())

	snap := s.Snapshot()
	// The feed overlay wins the main entrance over the stored reading.
	require.Equal(t, 15, snap.Locations[models.LocationMainEntrance].CurrentCount)
	require.Equal(t, 40, snap.Locations[models.LocationFoodCourt].CurrentCount)
	require.Equal(t, models.StatusWarning, snap.Locations[models.LocationFoodCourt].Status)
	require.Equal(t, 55, snap.Total)
}

func TestRefreshStoreFailureRetainsPreviousSnapshot(t *testing.T) {
	s := testScheduler(failingReadingStore{}, memory.NewSettingsStore(), &stubSource{})

	before := s.Snapshot()
	require.False(t, s.Refresh())
	require.Same(t, before, s.Snapshot())
}

func TestRefreshFeedFailureFallsBackToStoreOnly(t *testing.T) {
	readings := memory.NewReadingStore()
	readings.Seed(models.Reading{Location: models.LocationMainEntrance, PeopleCount: 25, Timestamp: time.Now()})

	s := testScheduler(readings, memory.NewSettingsStore(), &stubSource{err: errors.New("feed unreachable")})

	require.True(t, s.Refresh())
	require.Equal(t, 25, s.Snapshot().Locations[models.LocationMainEntrance].CurrentCount)
}

func TestRefreshCoalescesWhileCycleInFlight(t *testing.T) {
	source := newBlockingSource()
	s := testScheduler(memory.NewReadingStore(), memory.NewSettingsStore(), source)

	done := make(chan bool, 1)
	go func() { done <- s.Refresh() }()
	<-source.entered

	// Second request while the first holds the in-flight guard.
	require.False(t, s.Refresh())

	close(source.release)
	require.True(t, <-done)
}

func TestStopDiscardsInFlightResult(t *testing.T) {
	source := newBlockingSource()
	s := testScheduler(memory.NewReadingStore(), memory.NewSettingsStore(), source)

	before := s.Snapshot()

	done := make(chan bool, 1)
	go func() { done <- s.Refresh() }()
	<-source.entered

	s.Stop()
	require.False(t, <-done)
	require.Same(t, before, s.Snapshot())
}

func TestStartRunsImmediateCycle(t *testing.T) {
	readings := memory.NewReadingStore()
	readings.Seed(models.Reading{Location: models.LocationParkingArea, PeopleCount: 7, Timestamp: time.Now()})

	s := testScheduler(readings, memory.NewSettingsStore(), &stubSource{})
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return s.Snapshot().Locations[models.LocationParkingArea].CurrentCount == 7
	}, 2*time.Second, 10*time.Millisecond)
}
