package pipeline

import (
	"time"

	"crowdwatch-monitor/internal/models"
)

// FeedLocation is the single physical zone the live feed is bound to.
const FeedLocation = models.LocationMainEntrance

// feedDeviceFallback identifies a synthetic reading when no store-backed
// reading exists to borrow a device ID from.
const feedDeviceFallback = "csv_feed"

// LatestValid returns the most recent feed record, scanning from the end of
// the parsed sequence backward. The parser already dropped rows without a
// numeric count, so any surviving record qualifies.
func LatestValid(records []models.FeedRecord) (models.FeedRecord, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		return records[i], true
	}
	return models.FeedRecord{}, false
}

// Merge reconciles the live feed into the historical reading sequence.
//
// history must be time-descending (newest first), as the store returns it.
// When the feed holds a valid record, a synthetic reading for FeedLocation
// is prepended so the per-location "most recent" selection picks it over
// any store-backed reading from this cycle. Environmental fields are
// borrowed from the newest historical reading, since the feed carries none.
// An empty feed leaves history untouched.
func Merge(history []models.Reading, records []models.FeedRecord, now time.Time) []models.Reading {
	latest, ok := LatestValid(records)
	if !ok {
		return history
	}

	confidence := 1.0
	synthetic := models.Reading{
		Location:        FeedLocation,
		PeopleCount:     latest.Count,
		ConfidenceScore: &confidence,
		Timestamp:       now,
		ImageURL:        latest.ImageRef,
		DeviceID:        feedDeviceFallback,
	}
	if len(history) > 0 {
		synthetic.Temperature = history[0].Temperature
		synthetic.Humidity = history[0].Humidity
		if history[0].DeviceID != "" {
			synthetic.DeviceID = history[0].DeviceID
		}
	}

	merged := make([]models.Reading, 0, len(history)+1)
	merged = append(merged, synthetic)
	merged = append(merged, history...)
	return merged
}
