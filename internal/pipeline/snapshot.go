package pipeline

import (
	"time"

	"crowdwatch-monitor/internal/models"
)

// BuildSnapshot derives the per-location dashboard state from a merged,
// time-descending reading sequence. Every location in the closed set gets
// an entry; locations with no readings report zero and normal.
func BuildSnapshot(merged []models.Reading, settings map[models.Location]models.ThresholdConfig, now time.Time) *models.Snapshot {
	snap := &models.Snapshot{
		Locations:     make(map[models.Location]models.LocationSnapshot, len(models.AllLocations())),
		OverallStatus: models.StatusNormal,
		GeneratedAt:   now,
	}

	for _, loc := range models.AllLocations() {
		latest := newestFor(merged, loc)

		ls := models.LocationSnapshot{Status: models.StatusNormal}
		if latest != nil {
			ls.CurrentCount = latest.PeopleCount
			ls.LastUpdate = latest.Timestamp
			ls.Temperature = latest.Temperature
			ls.Humidity = latest.Humidity
		}

		if cfg, ok := settings[loc]; ok {
			ls.Status = Classify(ls.CurrentCount, &cfg)
		}

		snap.Locations[loc] = ls
		snap.Total += ls.CurrentCount
		snap.OverallStatus = models.MoreSevere(snap.OverallStatus, ls.Status)
	}

	return snap
}

// newestFor returns the first reading for loc in a newest-first sequence.
func newestFor(merged []models.Reading, loc models.Location) *models.Reading {
	for i := range merged {
		if merged[i].Location == loc {
			return &merged[i]
		}
	}
	return nil
}
