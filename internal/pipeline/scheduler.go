package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"crowdwatch-monitor/internal/feed"
	"crowdwatch-monitor/internal/metrics"
	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

// Scheduler drives one ingestion+reconciliation+classification cycle on a
// fixed interval and on demand. The computed snapshot lives in a single
// cell written only by the scheduler; consumers read atomically and never
// block a cycle.
type Scheduler struct {
	readings  store.ReadingStore
	settings  store.SettingsStore
	source    feed.Source
	evaluator *AlertEvaluator
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	interval  time.Duration
	listLimit int
	now       func() time.Time

	snapshot atomic.Pointer[models.Snapshot]
	inFlight atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SchedulerOptions wire the scheduler's collaborators.
type SchedulerOptions struct {
	Readings  store.ReadingStore
	Settings  store.SettingsStore
	Source    feed.Source
	Evaluator *AlertEvaluator
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	Interval  time.Duration
	ListLimit int
	Now       func() time.Time
}

func NewScheduler(opts SchedulerOptions) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = 100
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		readings:  opts.Readings,
		settings:  opts.Settings,
		source:    opts.Source,
		evaluator: opts.Evaluator,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		interval:  opts.Interval,
		listLimit: opts.ListLimit,
		now:       opts.Now,
		ctx:       ctx,
		cancel:    cancel,
	}

	// Consumers always see a snapshot, even before the first cycle lands.
	s.snapshot.Store(BuildSnapshot(nil, nil, opts.Now()))
	return s
}

// Start runs one cycle immediately, then on every interval tick until Stop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runCycle()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runCycle()
			}
		}
	}()
	s.logger.Info().Dur("interval", s.interval).Msg("Refresh scheduler started")
}

// Stop cancels the timer and any in-flight cycle. A fetch that outlives the
// cancellation has its result discarded, never applied to the snapshot.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info().Msg("Refresh scheduler stopped")
}

// Snapshot returns the last successfully computed snapshot.
func (s *Scheduler) Snapshot() *models.Snapshot {
	return s.snapshot.Load()
}

// Refresh runs a cycle on demand. If a cycle is already in flight the
// request coalesces with it and Refresh reports false.
func (s *Scheduler) Refresh() bool {
	return s.runCycle()
}

// runCycle executes one pipeline pass. Cycles are not re-entrant: a fire
// while one is in flight is skipped, not queued.
func (s *Scheduler) runCycle() bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		if s.metrics != nil {
			s.metrics.CyclesSkipped.Inc()
		}
		s.logger.Debug().Msg("Cycle already in flight, skipping")
		return false
	}
	defer s.inFlight.Store(false)

	start := s.now()
	ctx, cancel := context.WithTimeout(s.ctx, s.interval)
	defer cancel()

	// Store and feed are fetched concurrently so cycle latency is bounded
	// by the slower source, not their sum. Classification below only ever
	// sees data taken within this invocation.
	var (
		history  []models.Reading
		settings []models.ThresholdConfig
		feedText string

		histErr, setErr, feedErr error
	)

	var fetch sync.WaitGroup
	fetch.Add(3)
	go func() {
		defer fetch.Done()
		history, histErr = s.readings.List(ctx, store.ListOptions{OrderBy: "-timestamp", Limit: s.listLimit})
	}()
	go func() {
		defer fetch.Done()
		settings, setErr = s.settings.List(ctx)
	}()
	go func() {
		defer fetch.Done()
		feedText, feedErr = s.source.Fetch(ctx)
	}()
	fetch.Wait()

	if histErr != nil || setErr != nil {
		// Hard failure: keep the last-known-good snapshot until the next
		// successful cycle. Consumers see stale-but-valid data, not errors.
		if s.metrics != nil {
			s.metrics.CycleFailures.Inc()
		}
		s.logger.Error().
			AnErr("readings_error", histErr).
			AnErr("settings_error", setErr).
			Msg("Refresh cycle failed, retaining previous snapshot")
		return false
	}

	now := s.now()
	var records []models.FeedRecord
	if feedErr != nil {
		// Soft failure: the feed is an overlay, not the source of truth.
		s.logger.Warn().Err(feedErr).Msg("Live feed unavailable, using store data only")
	} else {
		records = feed.Parse(feedText, now)
	}

	merged := Merge(history, records, now)
	byLoc := SettingsByLocation(settings)

	snap := BuildSnapshot(merged, byLoc, now)
	snap.RecentAlerts = RecentAlerts(merged, now)

	s.evaluateCritical(ctx, snap, merged, byLoc)

	// Discard results computed across a Stop.
	if s.ctx.Err() != nil {
		return false
	}

	s.snapshot.Store(snap)
	if s.metrics != nil {
		s.metrics.CycleDuration.Observe(s.now().Sub(start).Seconds())
		s.metrics.ReadingsMerged.Set(float64(len(merged)))
		s.metrics.ObserveSnapshot(snap)
	}

	s.logger.Debug().
		Int("readings", len(merged)).
		Int("total", snap.Total).
		Str("overall_status", string(snap.OverallStatus)).
		Msg("Refresh cycle completed")
	return true
}

// evaluateCritical runs alert evaluation for each location currently in
// critical. Persistence failures are logged only: the snapshot computed
// this cycle stays valid regardless.
func (s *Scheduler) evaluateCritical(ctx context.Context, snap *models.Snapshot, merged []models.Reading, byLoc map[models.Location]models.ThresholdConfig) {
	if s.evaluator == nil {
		return
	}

	for _, loc := range models.AllLocations() {
		ls, ok := snap.Locations[loc]
		if !ok || ls.Status != models.StatusCritical {
			continue
		}
		cfg, ok := byLoc[loc]
		if !ok {
			continue
		}
		reading := newestFor(merged, loc)
		if reading == nil {
			continue
		}

		newlyMarked := !reading.AlertTriggered && !reading.Synthetic()
		if _, err := s.evaluator.Evaluate(ctx, *reading, &cfg); err != nil {
			s.logger.Error().Err(err).Str("location", string(loc)).Msg("Alert persistence failed")
			continue
		}
		if newlyMarked && s.metrics != nil {
			s.metrics.AlertsTriggered.Inc()
		}
	}
}
