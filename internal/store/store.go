package store

import (
	"context"
	"errors"

	"crowdwatch-monitor/internal/models"
)

// ErrNotFound is returned when an update/delete targets an unknown ID.
var ErrNotFound = errors.New("record not found")

// ListOptions control ordering and size of a reading listing. OrderBy uses
// the "-field" convention for descending order; the pipeline always asks
// for "-timestamp" (newest first).
type ListOptions struct {
	OrderBy string
	Limit   int
}

// ReadingPatch is the only mutation allowed on a persisted reading: the
// alert flag, set once after threshold evaluation.
type ReadingPatch struct {
	AlertTriggered *bool
}

// ReadingStore is the contract over the external record store holding
// occupancy readings.
type ReadingStore interface {
	List(ctx context.Context, opts ListOptions) ([]models.Reading, error)
	Create(ctx context.Context, r models.Reading) (models.Reading, error)
	Update(ctx context.Context, id string, patch ReadingPatch) (models.Reading, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SettingsStore is the contract over the threshold configuration store.
// The settings-save workflow deletes every config and recreates the full
// set, so a listing mid-save may legitimately come back empty.
type SettingsStore interface {
	List(ctx context.Context) ([]models.ThresholdConfig, error)
	Create(ctx context.Context, cfg models.ThresholdConfig) (models.ThresholdConfig, error)
	Delete(ctx context.Context, id string) (bool, error)
}
