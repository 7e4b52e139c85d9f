package models

import "time"

// Status is the three-level crowding classification of a location.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Severity orders statuses for aggregation (critical > warning > normal).
func (s Status) Severity() int {
	switch s {
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// MoreSevere returns the more severe of the two statuses.
func MoreSevere(a, b Status) Status {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// LocationSnapshot is the derived per-location state recomputed every cycle.
type LocationSnapshot struct {
	CurrentCount int       `json:"current_count"`
	Status       Status    `json:"status"`
	LastUpdate   time.Time `json:"last_update,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	Humidity     *float64  `json:"humidity,omitempty"`
}

// Snapshot is the full dashboard state produced by one refresh cycle.
// It is published atomically by the scheduler and read-only to consumers.
type Snapshot struct {
	Locations     map[Location]LocationSnapshot `json:"locations"`
	Total         int                           `json:"total"`
	OverallStatus Status                        `json:"overall_status"`
	RecentAlerts  []Reading                     `json:"recent_alerts"`
	GeneratedAt   time.Time                     `json:"generated_at"`
}

// FeedRecord is one parsed row of the live-count feed. Ephemeral: only the
// most recent numeric-valid record survives a refresh cycle.
type FeedRecord struct {
	ImageRef  string    `json:"image_ref"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// MessagePublisher publishes alert payloads to the message bus.
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
