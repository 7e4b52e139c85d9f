package models

import "fmt"

// EmergencyContact is one escalation contact for a location. Insertion order
// is display order; duplicates are allowed.
type EmergencyContact struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Role  string `json:"role" yaml:"role"`
}

// ThresholdConfig holds the per-location capacity limits that drive status
// classification and alerting. Read-only to the pipeline.
type ThresholdConfig struct {
	ID                string             `json:"id,omitempty" yaml:"-"`
	Location          Location           `json:"location" yaml:"location"`
	MaxCapacity       int                `json:"max_capacity" yaml:"max_capacity"`
	WarningThreshold  float64            `json:"warning_threshold" yaml:"warning_threshold"`
	CriticalThreshold float64            `json:"critical_threshold" yaml:"critical_threshold"`
	AlertEmail        string             `json:"alert_email,omitempty" yaml:"alert_email"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty" yaml:"emergency_contacts"`
}

// Validate checks the threshold invariants: positive capacity and
// 0 < warning <= critical <= 1.
func (c ThresholdConfig) Validate() error {
	if !ValidLocation(c.Location) {
		return fmt.Errorf("unknown location %q", c.Location)
	}
	if c.MaxCapacity <= 0 {
		return fmt.Errorf("location %s: max_capacity must be positive, got %d", c.Location, c.MaxCapacity)
	}
	if c.WarningThreshold <= 0 || c.WarningThreshold > 1 {
		return fmt.Errorf("location %s: warning_threshold must be in (0,1], got %g", c.Location, c.WarningThreshold)
	}
	if c.CriticalThreshold <= 0 || c.CriticalThreshold > 1 {
		return fmt.Errorf("location %s: critical_threshold must be in (0,1], got %g", c.Location, c.CriticalThreshold)
	}
	if c.WarningThreshold > c.CriticalThreshold {
		return fmt.Errorf("location %s: warning_threshold %g exceeds critical_threshold %g",
			c.Location, c.WarningThreshold, c.CriticalThreshold)
	}
	return nil
}

// WarningLimit returns the people count at which the location enters warning.
func (c ThresholdConfig) WarningLimit() float64 {
	return float64(c.MaxCapacity) * c.WarningThreshold
}

// CriticalLimit returns the people count at which the location enters critical.
func (c ThresholdConfig) CriticalLimit() float64 {
	return float64(c.MaxCapacity) * c.CriticalThreshold
}
