package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"crowdwatch-monitor/internal/models"
)

// TimeRange names the analytics lookback window.
type TimeRange string

const (
	RangeToday   TimeRange = "today"
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
)

// ParseTimeRange validates a range selector coming off the wire.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case RangeToday, RangeWeek, RangeMonth, RangeQuarter:
		return TimeRange(s), nil
	case "":
		return RangeToday, nil
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// Cutoff resolves a range to its inclusive start instant. "today" means the
// start of the current calendar day; the sliding ranges count back from now.
func Cutoff(r TimeRange, now time.Time) time.Time {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, 0, -30)
	case RangeQuarter:
		return now.AddDate(0, 0, -90)
	default:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
}

// FilterSince drops readings older than the cutoff before any aggregation.
func FilterSince(readings []models.Reading, cutoff time.Time) []models.Reading {
	out := make([]models.Reading, 0, len(readings))
	for _, r := range readings {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// HourlyPoint is the average crowd for one hour-of-day bucket.
type HourlyPoint struct {
	Hour    string `json:"hour"`
	Average int    `json:"average"`
}

// HourlyTrend groups readings by hour of day (HH:00) and averages the
// counts per bucket, sorted by hour label. Note the bucketing is by hour of
// day, not by calendar date: every day in a multi-day range collapses onto
// the same 24 buckets. Preserved for compatibility with the dashboards
// built on it; see DESIGN.md for why this is suspect over long ranges.
func HourlyTrend(readings []models.Reading) []HourlyPoint {
	type acc struct {
		total int
		count int
	}
	buckets := make(map[string]*acc)

	for _, r := range readings {
		hour := fmt.Sprintf("%02d:00", r.Timestamp.Hour())
		b, ok := buckets[hour]
		if !ok {
			b = &acc{}
			buckets[hour] = b
		}
		b.total += r.PeopleCount
		b.count++
	}

	out := make([]HourlyPoint, 0, len(buckets))
	for hour, b := range buckets {
		out = append(out, HourlyPoint{Hour: hour, Average: roundMean(b.total, b.count)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// LocationStats aggregates one location's readings within the range.
type LocationStats struct {
	Location models.Location `json:"location"`
	Name     string          `json:"name"`
	Total    int             `json:"total"`
	Count    int             `json:"count"`
	Average  int             `json:"average"`
	Peak     int             `json:"peak"`
}

// LocationBreakdown computes per-location totals, averages and peaks.
// Only locations present in the filtered set appear, in first-encounter
// order — that order is the tie-breaker for the peak ranking.
func LocationBreakdown(readings []models.Reading) []LocationStats {
	index := make(map[models.Location]int)
	out := make([]LocationStats, 0)

	for _, r := range readings {
		i, ok := index[r.Location]
		if !ok {
			i = len(out)
			index[r.Location] = i
			out = append(out, LocationStats{Location: r.Location, Name: r.Location.Label()})
		}
		out[i].Total += r.PeopleCount
		out[i].Count++
		if r.PeopleCount > out[i].Peak {
			out[i].Peak = r.PeopleCount
		}
	}

	for i := range out {
		out[i].Average = roundMean(out[i].Total, out[i].Count)
	}
	return out
}

// RankByPeak orders locations by peak descending; ties keep encounter order.
func RankByPeak(stats []LocationStats) []LocationStats {
	ranked := make([]LocationStats, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Peak > ranked[j].Peak })
	return ranked
}

// Summary holds the headline metrics over the filtered set.
type Summary struct {
	TotalReadings   int `json:"total_readings"`
	PeakCrowd       int `json:"peak_crowd"`
	AverageCrowd    int `json:"average_crowd"`
	AlertsTriggered int `json:"alerts_triggered"`
}

// Summarize computes the headline metrics. An empty set reports zeros.
func Summarize(readings []models.Reading) Summary {
	s := Summary{TotalReadings: len(readings)}
	total := 0
	for _, r := range readings {
		total += r.PeopleCount
		if r.PeopleCount > s.PeakCrowd {
			s.PeakCrowd = r.PeopleCount
		}
		if r.AlertTriggered {
			s.AlertsTriggered++
		}
	}
	s.AverageCrowd = roundMean(total, len(readings))
	return s
}

// Report is the full aggregation over one time range.
type Report struct {
	Range     TimeRange       `json:"range"`
	Cutoff    time.Time       `json:"cutoff"`
	Summary   Summary         `json:"summary"`
	Hourly    []HourlyPoint   `json:"hourly_trend"`
	Locations []LocationStats `json:"locations"`
	Ranking   []LocationStats `json:"busiest_locations"`
}

// BuildReport filters the reading sequence by range and computes every
// aggregate view over the survivors. Empty input yields a zeroed report,
// never an error.
func BuildReport(readings []models.Reading, r TimeRange, now time.Time) Report {
	filtered := FilterSince(readings, Cutoff(r, now))
	locations := LocationBreakdown(filtered)
	return Report{
		Range:     r,
		Cutoff:    Cutoff(r, now),
		Summary:   Summarize(filtered),
		Hourly:    HourlyTrend(filtered),
		Locations: locations,
		Ranking:   RankByPeak(locations),
	}
}

func roundMean(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
