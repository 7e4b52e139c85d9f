package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crowdwatch-monitor/internal/models"
)

var testNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func reading(loc models.Location, count int, ts time.Time) models.Reading {
	return models.Reading{Location: loc, PeopleCount: count, Timestamp: ts}
}

func TestParseTimeRange(t *testing.T) {
	for _, valid := range []string{"today", "week", "month", "quarter"} {
		r, err := ParseTimeRange(valid)
		require.NoError(t, err)
		require.Equal(t, TimeRange(valid), r)
	}

	r, err := ParseTimeRange("")
	require.NoError(t, err)
	require.Equal(t, RangeToday, r)

	_, err = ParseTimeRange("year")
	require.Error(t, err)
}

func TestCutoff(t *testing.T) {
	require.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Cutoff(RangeToday, testNow))
	require.Equal(t, testNow.AddDate(0, 0, -7), Cutoff(RangeWeek, testNow))
	require.Equal(t, testNow.AddDate(0, 0, -30), Cutoff(RangeMonth, testNow))
	require.Equal(t, testNow.AddDate(0, 0, -90), Cutoff(RangeQuarter, testNow))
}

func TestFilterSinceCutoffIsInclusive(t *testing.T) {
	cutoff := Cutoff(RangeToday, testNow)
	readings := []models.Reading{
		reading(models.LocationMainEntrance, 1, cutoff.Add(-time.Second)),
		reading(models.LocationMainEntrance, 2, cutoff),
		reading(models.LocationMainEntrance, 3, cutoff.Add(time.Hour)),
	}

	kept := FilterSince(readings, cutoff)
	require.Len(t, kept, 2)
	require.Equal(t, 2, kept[0].PeopleCount)
	require.Equal(t, 3, kept[1].PeopleCount)
}

func TestSummarizeEmptySetReportsZeros(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, Summary{}, s)
}

func TestSummarize(t *testing.T) {
	readings := []models.Reading{
		reading(models.LocationMainEntrance, 10, testNow),
		reading(models.LocationFoodCourt, 31, testNow),
		{Location: models.LocationMainEntrance, PeopleCount: 90, Timestamp: testNow, AlertTriggered: true},
	}

	s := Summarize(readings)
	require.Equal(t, 3, s.TotalReadings)
	require.Equal(t, 90, s.PeakCrowd)
	require.Equal(t, 44, s.AverageCrowd) // 131/3 rounds to 44
	require.Equal(t, 1, s.AlertsTriggered)
}

func TestHourlyTrendBucketsByHourOfDay(t *testing.T) {
	readings := []models.Reading{
		reading(models.LocationMainEntrance, 10, time.Date(2025, 6, 15, 9, 15, 0, 0, time.UTC)),
		reading(models.LocationMainEntrance, 20, time.Date(2025, 6, 15, 9, 45, 0, 0, time.UTC)),
		// Different day, same hour of day: collapses into the 09:00 bucket.
		reading(models.LocationMainEntrance, 30, time.Date(2025, 6, 14, 9, 5, 0, 0, time.UTC)),
		reading(models.LocationMainEntrance, 7, time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)),
	}

	trend := HourlyTrend(readings)
	require.Equal(t, []HourlyPoint{
		{Hour: "09:00", Average: 20},
		{Hour: "14:00", Average: 7},
	}, trend)
}

func TestLocationBreakdownAndRanking(t *testing.T) {
	readings := []models.Reading{
		reading(models.LocationFoodCourt, 30, testNow),
		reading(models.LocationMainEntrance, 50, testNow),
		reading(models.LocationFoodCourt, 10, testNow),
		reading(models.LocationExhibitionHall, 50, testNow),
	}

	stats := LocationBreakdown(readings)
	require.Len(t, stats, 3)
	require.Equal(t, models.LocationFoodCourt, stats[0].Location)
	require.Equal(t, "Food Court", stats[0].Name)
	require.Equal(t, 40, stats[0].Total)
	require.Equal(t, 2, stats[0].Count)
	require.Equal(t, 20, stats[0].Average)
	require.Equal(t, 30, stats[0].Peak)

	ranked := RankByPeak(stats)
	// Peak ties keep encounter order: main entrance was seen before the hall.
	require.Equal(t, models.LocationMainEntrance, ranked[0].Location)
	require.Equal(t, models.LocationExhibitionHall, ranked[1].Location)
	require.Equal(t, models.LocationFoodCourt, ranked[2].Location)

	// The input slice is left unsorted.
	require.Equal(t, models.LocationFoodCourt, stats[0].Location)
}

func TestBuildReportFiltersBeforeAggregating(t *testing.T) {
	old := reading(models.LocationMainEntrance, 500, testNow.AddDate(0, 0, -40))
	recent := reading(models.LocationMainEntrance, 20, testNow.Add(-time.Hour))

	report := BuildReport([]models.Reading{old, recent}, RangeMonth, testNow)

	require.Equal(t, RangeMonth, report.Range)
	require.Equal(t, 1, report.Summary.TotalReadings)
	require.Equal(t, 20, report.Summary.PeakCrowd)
	require.Len(t, report.Locations, 1)
	require.Len(t, report.Ranking, 1)
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := BuildReport(nil, RangeToday, testNow)
	require.Equal(t, Summary{}, report.Summary)
	require.Empty(t, report.Hourly)
	require.Empty(t, report.Locations)
	require.Empty(t, report.Ranking)
}
