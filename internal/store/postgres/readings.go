package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

// ReadingStore is the Postgres-backed reading store.
type ReadingStore struct {
	pool *pgxpool.Pool
}

func NewReadingStore(pool *pgxpool.Pool) *ReadingStore {
	return &ReadingStore{pool: pool}
}

const readingColumns = `id, location, people_count, confidence_score, ts, temperature, humidity, device_id, image_url, alert_triggered`

func (s *ReadingStore) List(ctx context.Context, opts store.ListOptions) ([]models.Reading, error) {
	order := "ts DESC"
	switch opts.OrderBy {
	case "", "-timestamp":
	case "timestamp":
		order = "ts ASC"
	default:
		return nil, fmt.Errorf("unsupported order %q", opts.OrderBy)
	}

	query := fmt.Sprintf(`SELECT %s FROM crowdwatch.readings ORDER BY %s`, readingColumns, order)
	args := []interface{}{}
	if opts.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, opts.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var out []models.Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *ReadingStore) Create(ctx context.Context, r models.Reading) (models.Reading, error) {
	if !models.ValidLocation(r.Location) {
		return models.Reading{}, fmt.Errorf("unknown location %q", r.Location)
	}
	if r.PeopleCount < 0 {
		return models.Reading{}, fmt.Errorf("people_count must be non-negative, got %d", r.PeopleCount)
	}

	row := s.pool.QueryRow(ctx, `
INSERT INTO crowdwatch.readings (location, people_count, confidence_score, ts, temperature, humidity, device_id, image_url, alert_triggered, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
RETURNING `+readingColumns,
		r.Location, r.PeopleCount, r.ConfidenceScore, r.Timestamp, r.Temperature, r.Humidity, r.DeviceID, r.ImageURL, r.AlertTriggered)

	created, err := scanReading(row)
	if err != nil {
		return models.Reading{}, fmt.Errorf("create reading: %w", err)
	}
	return created, nil
}

func (s *ReadingStore) Update(ctx context.Context, id string, patch store.ReadingPatch) (models.Reading, error) {
	if patch.AlertTriggered == nil {
		return models.Reading{}, fmt.Errorf("empty reading patch")
	}

	row := s.pool.QueryRow(ctx, `
UPDATE crowdwatch.readings SET alert_triggered = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+readingColumns, id, *patch.AlertTriggered)

	updated, err := scanReading(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reading{}, store.ErrNotFound
		}
		return models.Reading{}, fmt.Errorf("update reading %s: %w", id, err)
	}
	return updated, nil
}

func (s *ReadingStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM crowdwatch.readings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete reading %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanReading(row pgx.Row) (models.Reading, error) {
	var r models.Reading
	err := row.Scan(&r.ID, &r.Location, &r.PeopleCount, &r.ConfidenceScore, &r.Timestamp,
		&r.Temperature, &r.Humidity, &r.DeviceID, &r.ImageURL, &r.AlertTriggered)
	return r, err
}
