package models

import (
	"time"
)

// Location identifies one monitored zone. The set of zones is closed:
// readings referencing anything else are rejected at the ingestion boundary.
type Location string

const (
	LocationMainEntrance   Location = "main_entrance"
	LocationFoodCourt      Location = "food_court"
	LocationExhibitionHall Location = "exhibition_hall"
	LocationParkingArea    Location = "parking_area"
	LocationEmergencyExit  Location = "emergency_exit"
)

// AllLocations returns the closed set of monitored locations in display order.
func AllLocations() []Location {
	return []Location{
		LocationMainEntrance,
		LocationFoodCourt,
		LocationExhibitionHall,
		LocationParkingArea,
		LocationEmergencyExit,
	}
}

// ValidLocation reports whether l belongs to the closed location set.
func ValidLocation(l Location) bool {
	switch l {
	case LocationMainEntrance, LocationFoodCourt, LocationExhibitionHall,
		LocationParkingArea, LocationEmergencyExit:
		return true
	}
	return false
}

// Label returns a human-readable location name ("main_entrance" -> "Main Entrance").
func (l Location) Label() string {
	out := make([]byte, 0, len(l))
	upper := true
	for i := 0; i < len(l); i++ {
		c := l[i]
		if c == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}

// Reading is one occupancy observation at a location and time.
//
// Readings are immutable once created except for AlertTriggered, which the
// alert evaluator may set exactly once after threshold evaluation. Synthetic
// readings (merged in from the live feed) have an empty ID and are never
// persisted.
type Reading struct {
	ID              string    `json:"id,omitempty"`
	Location        Location  `json:"location"`
	PeopleCount     int       `json:"people_count"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Temperature     *float64  `json:"temperature,omitempty"`
	Humidity        *float64  `json:"humidity,omitempty"`
	DeviceID        string    `json:"device_id,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	AlertTriggered  bool      `json:"alert_triggered"`
}

// Synthetic reports whether the reading was synthesized from the live feed
// rather than loaded from the store.
func (r Reading) Synthetic() bool {
	return r.ID == ""
}
