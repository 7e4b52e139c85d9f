package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"crowdwatch-monitor/internal/models"
)

type locationsFile struct {
	Defaults []models.ThresholdConfig `yaml:"defaults"`
}

// LoadLocationDefaults reads the YAML seed file holding the default
// threshold config per location. Locations absent from the file get the
// built-in defaults, so every location in the closed set always has an
// entry. A missing file is not an error.
func LoadLocationDefaults(path string) (map[models.Location]models.ThresholdConfig, error) {
	defaults := builtinDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, fmt.Errorf("read locations file: %w", err)
	}

	var parsed locationsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse locations file %s: %w", path, err)
	}

	for _, cfg := range parsed.Defaults {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("locations file %s: %w", path, err)
		}
		defaults[cfg.Location] = cfg
	}

	return defaults, nil
}

func builtinDefaults() map[models.Location]models.ThresholdConfig {
	out := make(map[models.Location]models.ThresholdConfig, len(models.AllLocations()))
	for _, loc := range models.AllLocations() {
		out[loc] = models.ThresholdConfig{
			Location:          loc,
			MaxCapacity:       100,
			WarningThreshold:  0.8,
			CriticalThreshold: 0.9,
			EmergencyContacts: []models.EmergencyContact{
				{Name: "Security Team", Phone: "+1-555-0911", Role: "Security"},
				{Name: "Facility Manager", Phone: "+1-555-0912", Role: "Management"},
			},
		}
	}
	return out
}
