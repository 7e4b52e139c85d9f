package analytics

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crowdwatch-monitor/internal/models"
)

func TestWriteCSVFormatsFields(t *testing.T) {
	confidence := 0.876
	temp := 22.5
	humidity := 55.0
	readings := []models.Reading{
		{
			Location:        models.LocationMainEntrance,
			PeopleCount:     42,
			ConfidenceScore: &confidence,
			Timestamp:       time.Date(2025, 6, 15, 9, 30, 5, 0, time.UTC),
			Temperature:     &temp,
			Humidity:        &humidity,
			DeviceID:        "ESP32-CAM-01",
			AlertTriggered:  true,
		},
		{
			Location:    models.LocationFoodCourt,
			PeopleCount: 3,
			Timestamp:   time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, readings))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, exportHeader, rows[0])
	require.Equal(t, []string{
		"2025-06-15 09:30:05", "Main Entrance", "42", "88%", "22.5°C", "55%", "Yes", "ESP32-CAM-01",
	}, rows[1])
	require.Equal(t, []string{
		"2025-06-15 10:00:00", "Food Court", "3", "", "", "", "No", "",
	}, rows[2])
}

func TestWriteCSVEscapesEmbeddedDelimiters(t *testing.T) {
	readings := []models.Reading{
		{
			Location:    models.LocationParkingArea,
			PeopleCount: 1,
			Timestamp:   time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
			DeviceID:    `cam,1 "north"`,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, readings))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, `cam,1 "north"`, rows[1][7])
}

func TestWriteCSVEmptySetStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, exportHeader, rows[0])
}

func TestBuildXLSXRoundTrip(t *testing.T) {
	readings := []models.Reading{
		{
			Location:    models.LocationMainEntrance,
			PeopleCount: 12,
			Timestamp:   time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
		},
	}
	report := BuildReport(readings, RangeToday, testNow)

	data, err := BuildXLSX(readings, report)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// XLSX is a zip archive.
	require.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestBuildReportPDF(t *testing.T) {
	readings := []models.Reading{
		{Location: models.LocationMainEntrance, PeopleCount: 95, Timestamp: testNow, AlertTriggered: true},
		{Location: models.LocationFoodCourt, PeopleCount: 20, Timestamp: testNow},
	}
	report := BuildReport(readings, RangeToday, testNow)

	data, err := BuildReportPDF(report, testNow)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
