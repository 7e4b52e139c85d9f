package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"crowdwatch-monitor/internal/models"
)

// exportHeader is the fixed export column order.
var exportHeader = []string{
	"Timestamp", "Location", "People Count", "Confidence Score",
	"Temperature", "Humidity", "Alert Triggered", "Device ID",
}

// WriteCSV streams readings as delimited text with a header row. Each field
// is escaped by the CSV writer, so embedded commas or quotes in any field
// (device IDs especially) round-trip intact.
func WriteCSV(w io.Writer, readings []models.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, r := range readings {
		if err := cw.Write(exportRow(r)); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRow(r models.Reading) []string {
	alert := "No"
	if r.AlertTriggered {
		alert = "Yes"
	}
	return []string{
		r.Timestamp.Format("2006-01-02 15:04:05"),
		r.Location.Label(),
		fmt.Sprintf("%d", r.PeopleCount),
		formatPercent(r.ConfidenceScore),
		formatMeasure(r.Temperature, "°C"),
		formatMeasure(r.Humidity, "%"),
		alert,
		r.DeviceID,
	}
}

func formatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d%%", int(math.Round(*v*100)))
}

func formatMeasure(v *float64, unit string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g%s", *v, unit)
}

// BuildXLSX renders the per-reading export plus a summary sheet as an XLSX
// workbook.
func BuildXLSX(readings []models.Reading, report Report) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	readingsSheet := "readings"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(readingsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Crowd Analytics")
	_ = f.SetCellValue(summarySheet, "A3", "Range")
	_ = f.SetCellValue(summarySheet, "B3", string(report.Range))
	_ = f.SetCellValue(summarySheet, "A4", "Since")
	_ = f.SetCellValue(summarySheet, "B4", report.Cutoff.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A5", "Total Readings")
	_ = f.SetCellValue(summarySheet, "B5", report.Summary.TotalReadings)
	_ = f.SetCellValue(summarySheet, "A6", "Peak Crowd")
	_ = f.SetCellValue(summarySheet, "B6", report.Summary.PeakCrowd)
	_ = f.SetCellValue(summarySheet, "A7", "Average Crowd")
	_ = f.SetCellValue(summarySheet, "B7", report.Summary.AverageCrowd)
	_ = f.SetCellValue(summarySheet, "A8", "Alerts Triggered")
	_ = f.SetCellValue(summarySheet, "B8", report.Summary.AlertsTriggered)

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(readingsSheet, cell, name)
	}
	for i, r := range readings {
		for col, value := range exportRow(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(readingsSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
