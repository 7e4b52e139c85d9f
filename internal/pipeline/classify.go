package pipeline

import (
	"crowdwatch-monitor/internal/models"
)

// Classify computes the crowding status for a count against a location's
// thresholds. A nil config means the location is unmonitored and always
// reads normal, regardless of count. Both boundaries are inclusive: a count
// sitting exactly on a limit belongs to the higher-severity bucket.
func Classify(count int, cfg *models.ThresholdConfig) models.Status {
	if cfg == nil {
		return models.StatusNormal
	}
	c := float64(count)
	if c >= cfg.CriticalLimit() {
		return models.StatusCritical
	}
	if c >= cfg.WarningLimit() {
		return models.StatusWarning
	}
	return models.StatusNormal
}

// SettingsByLocation indexes configs for classification. Later entries win
// on duplicate locations, matching the store's list order.
func SettingsByLocation(settings []models.ThresholdConfig) map[models.Location]models.ThresholdConfig {
	out := make(map[models.Location]models.ThresholdConfig, len(settings))
	for _, cfg := range settings {
		out[cfg.Location] = cfg
	}
	return out
}
