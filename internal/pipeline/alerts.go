package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

// AlertWindow is the trailing lookback for the "recent alerts" view.
// Fixed by design, not configurable.
const AlertWindow = time.Hour

// RecentAlerts selects the alert-triggered readings inside the trailing
// window ending at ref. Input ordering (newest first) is preserved; the
// full matching set is returned — any display truncation is the
// presentation layer's concern.
func RecentAlerts(readings []models.Reading, ref time.Time) []models.Reading {
	cutoff := ref.Add(-AlertWindow)
	out := make([]models.Reading, 0)
	for _, r := range readings {
		if r.AlertTriggered && r.Timestamp.After(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// Notifier delivers an alert message. Fire-and-forget from the pipeline's
// perspective: a failed send never rolls back the persisted alert flag.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// AlertEvaluator persists the alert flag on critical threshold crossings
// and dispatches notifications. Persisting and notifying are independent
// steps: the flag is written whether or not an alert email is configured,
// and the email goes out only when one is.
type AlertEvaluator struct {
	readings store.ReadingStore
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time

	cooldown   time.Duration
	cooldownMu sync.Mutex
	lastSent   map[models.Location]time.Time
}

func NewAlertEvaluator(readings store.ReadingStore, notifier Notifier, cooldown time.Duration, logger zerolog.Logger) *AlertEvaluator {
	return &AlertEvaluator{
		readings: readings,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		cooldown: cooldown,
		lastSent: make(map[models.Location]time.Time),
	}
}

// Evaluate checks one reading against its location's thresholds and, on a
// critical crossing, marks the reading and notifies the configured contact.
// It reports whether the alert fired. A persistence failure is returned to
// the caller of this operation only; it does not touch any snapshot already
// computed this cycle.
func (e *AlertEvaluator) Evaluate(ctx context.Context, reading models.Reading, cfg *models.ThresholdConfig) (bool, error) {
	if Classify(reading.PeopleCount, cfg) != models.StatusCritical {
		return false, nil
	}

	// Synthetic feed readings are never persisted, so there is no record
	// to flag; the notification path still applies.
	if !reading.Synthetic() && !reading.AlertTriggered {
		triggered := true
		if _, err := e.readings.Update(ctx, reading.ID, store.ReadingPatch{AlertTriggered: &triggered}); err != nil {
			return true, fmt.Errorf("mark reading %s alert-triggered: %w", reading.ID, err)
		}
	}

	if cfg.AlertEmail == "" || e.notifier == nil {
		return true, nil
	}
	if !e.allow(reading.Location) {
		e.logger.Debug().Str("location", string(reading.Location)).Msg("Alert notification blocked by cooldown")
		return true, nil
	}

	subject := fmt.Sprintf("Critical Overcrowding Alert - %s", reading.Location.Label())
	body := fmt.Sprintf("CRITICAL ALERT: %d people detected at %s. This exceeds the critical threshold of %d people. Immediate action required.",
		reading.PeopleCount, reading.Location.Label(), int(cfg.CriticalLimit()+0.5))

	if err := e.notifier.Send(ctx, cfg.AlertEmail, subject, body); err != nil {
		// Non-fatal: the flag is already persisted.
		e.logger.Warn().Err(err).Str("location", string(reading.Location)).Msg("Alert notification failed")
	}
	return true, nil
}

func (e *AlertEvaluator) allow(loc models.Location) bool {
	e.cooldownMu.Lock()
	defer e.cooldownMu.Unlock()

	now := e.now()
	if last, ok := e.lastSent[loc]; ok && now.Sub(last) < e.cooldown {
		return false
	}
	e.lastSent[loc] = now
	return true
}
