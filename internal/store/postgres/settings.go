package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"crowdwatch-monitor/internal/models"
)

// SettingsStore is the Postgres-backed threshold configuration store.
type SettingsStore struct {
	pool *pgxpool.Pool
}

func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

func (s *SettingsStore) List(ctx context.Context) ([]models.ThresholdConfig, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, location, max_capacity, warning_threshold, critical_threshold, alert_email, emergency_contacts
FROM crowdwatch.settings ORDER BY location`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []models.ThresholdConfig
	for rows.Next() {
		var cfg models.ThresholdConfig
		var contacts []byte
		if err := rows.Scan(&cfg.ID, &cfg.Location, &cfg.MaxCapacity, &cfg.WarningThreshold,
			&cfg.CriticalThreshold, &cfg.AlertEmail, &contacts); err != nil {
			return nil, err
		}
		if len(contacts) > 0 {
			if err := json.Unmarshal(contacts, &cfg.EmergencyContacts); err != nil {
				return nil, fmt.Errorf("decode contacts for %s: %w", cfg.Location, err)
			}
		}
		out = append(out, cfg)
	}

	return out, rows.Err()
}

func (s *SettingsStore) Create(ctx context.Context, cfg models.ThresholdConfig) (models.ThresholdConfig, error) {
	if err := cfg.Validate(); err != nil {
		return models.ThresholdConfig{}, err
	}

	contacts, err := json.Marshal(cfg.EmergencyContacts)
	if err != nil {
		return models.ThresholdConfig{}, fmt.Errorf("encode contacts: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
INSERT INTO crowdwatch.settings (location, max_capacity, warning_threshold, critical_threshold, alert_email, emergency_contacts, created_at)
VALUES ($1,$2,$3,$4,$5,$6,NOW())
RETURNING id`,
		cfg.Location, cfg.MaxCapacity, cfg.WarningThreshold, cfg.CriticalThreshold, cfg.AlertEmail, contacts)

	if err := row.Scan(&cfg.ID); err != nil {
		return models.ThresholdConfig{}, fmt.Errorf("create settings for %s: %w", cfg.Location, err)
	}
	return cfg, nil
}

func (s *SettingsStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM crowdwatch.settings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete settings %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
