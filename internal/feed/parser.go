package feed

import (
	"math"
	"strconv"
	"strings"
	"time"

	"crowdwatch-monitor/internal/models"
)

// Timestamp layouts seen in the wild: the counter script writes ISO-8601
// derived from capture filenames, older feeds use a space separator, and
// raw camera filenames embed a compact yyyymmddhhmmss stamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102150405",
}

// Parse turns a raw delimited feed document into FeedRecords, preserving
// file order (oldest first). Malformed rows are skipped, never reported as
// errors: a broken line in the feed must not lose the rest of the document.
//
// A row is kept only if it has at least three comma-separated fields
// (image ref, timestamp, count) and its count parses as a finite,
// non-negative number. A bad timestamp does not drop the row; the record
// falls back to the ingestion time instead, so a valid count survives.
func Parse(text string, now time.Time) []models.FeedRecord {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	records := make([]models.FeedRecord, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}

		countField := strings.TrimSpace(parts[2])
		count, err := strconv.ParseFloat(countField, 64)
		if err != nil || math.IsNaN(count) || math.IsInf(count, 0) || count < 0 {
			continue
		}

		records = append(records, models.FeedRecord{
			ImageRef:  strings.TrimSpace(parts[0]),
			Timestamp: parseTimestamp(strings.TrimSpace(parts[1]), now),
			Count:     int(count),
		})
	}

	return records
}

func parseTimestamp(field string, now time.Time) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, field); err == nil {
			return ts
		}
	}
	return now
}
