package analytics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BuildReportPDF renders the report summary (key metrics, busiest locations,
// recommendations) as a PDF document.
func BuildReportPDF(report Report, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Crowd Analytics Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Range: %s (since %s)", report.Range, report.Cutoff.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Key Metrics")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Readings: %d", report.Summary.TotalReadings))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Peak Crowd: %d people", report.Summary.PeakCrowd))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average Crowd: %d people", report.Summary.AverageCrowd))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Alerts Triggered: %d", report.Summary.AlertsTriggered))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Busiest Locations")
	pdf.Ln(7)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(15, 6, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 6, "Location", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Peak", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "Average", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	top := report.Ranking
	if len(top) > 3 {
		top = top[:3]
	}
	for i, loc := range top {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, loc.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", loc.Peak), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", loc.Average), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Recommendations")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	for _, line := range recommendations(report) {
		pdf.Cell(0, 6, "- "+line)
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recommendations(report Report) []string {
	var out []string
	if report.Summary.AlertsTriggered > 0 {
		out = append(out, "Consider increasing capacity or implementing crowd control measures")
	}
	out = append(out,
		"Monitor peak hours for better resource allocation",
		"Review alert thresholds based on actual crowd patterns",
		"Consider additional monitoring points in high-traffic areas",
	)
	return out
}
