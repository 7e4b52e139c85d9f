package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crowdwatch-monitor/internal/analytics"
	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

type AnalyticsHandler struct {
	readings store.ReadingStore
	now      func() time.Time
}

func NewAnalyticsHandler(readings store.ReadingStore) *AnalyticsHandler {
	return &AnalyticsHandler{readings: readings, now: time.Now}
}

func (h *AnalyticsHandler) load(c *gin.Context) ([]models.Reading, analytics.TimeRange, bool) {
	timeRange, err := analytics.ParseTimeRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}

	readings, err := h.readings.List(c.Request.Context(), store.ListOptions{OrderBy: "-timestamp"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list readings"})
		return nil, "", false
	}
	return readings, timeRange, true
}

// @Summary Analytics report
// @Description Aggregate readings over a time range: summary, hourly trend, per-location breakdown, peak ranking
// @Tags analytics
// @Produce json
// @Param range query string false "today, week, month or quarter" default(today)
// @Success 200 {object} analytics.Report
// @Failure 400 {object} map[string]interface{}
// @Router /analytics [get]
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	readings, timeRange, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.BuildReport(readings, timeRange, h.now()))
}

// @Summary Export readings
// @Description Download the readings in the selected range as CSV or XLSX
// @Tags analytics
// @Produce text/csv
// @Param range query string false "today, week, month or quarter" default(today)
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {string} string
// @Failure 400 {object} map[string]interface{}
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	readings, timeRange, ok := h.load(c)
	if !ok {
		return
	}

	now := h.now()
	filtered := analytics.FilterSince(readings, analytics.Cutoff(timeRange, now))
	stem := fmt.Sprintf("crowd-analytics-%s-%s", timeRange, now.Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", stem))
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := analytics.WriteCSV(c.Writer, filtered); err != nil {
			_ = c.Error(err)
		}
	case "xlsx":
		report := analytics.BuildReport(readings, timeRange, now)
		data, err := analytics.BuildXLSX(filtered, report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", stem))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

// @Summary Analytics report as PDF
// @Description Download the aggregated report (key metrics, busiest locations, recommendations) as PDF
// @Tags analytics
// @Produce application/pdf
// @Param range query string false "today, week, month or quarter" default(today)
// @Success 200 {string} string
// @Failure 400 {object} map[string]interface{}
// @Router /analytics/report [get]
func (h *AnalyticsHandler) DownloadPDF(c *gin.Context) {
	readings, timeRange, ok := h.load(c)
	if !ok {
		return
	}

	now := h.now()
	report := analytics.BuildReport(readings, timeRange, now)
	data, err := analytics.BuildReportPDF(report, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=crowd-report-%s-%s.pdf", timeRange, now.Format("2006-01-02")))
	c.Data(http.StatusOK, "application/pdf", data)
}
