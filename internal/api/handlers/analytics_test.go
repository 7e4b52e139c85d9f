package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"crowdwatch-monitor/internal/analytics"
	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store/memory"
)

func analyticsRouter(s *memory.ReadingStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandler(s)
	r := gin.New()
	r.GET("/analytics", h.GetReport)
	r.GET("/analytics/export", h.Export)
	r.GET("/analytics/report", h.DownloadPDF)
	return r
}

func seededAnalyticsStore() *memory.ReadingStore {
	s := memory.NewReadingStore()
	s.Seed(
		models.Reading{Location: models.LocationMainEntrance, PeopleCount: 50, Timestamp: time.Now().Add(-time.Hour)},
		models.Reading{Location: models.LocationFoodCourt, PeopleCount: 10, Timestamp: time.Now().Add(-30 * time.Minute)},
	)
	return s
}

func TestGetReport(t *testing.T) {
	r := analyticsRouter(seededAnalyticsStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics?range=week", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var report analytics.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, analytics.RangeWeek, report.Range)
	require.Equal(t, 2, report.Summary.TotalReadings)
	require.Equal(t, 50, report.Summary.PeakCrowd)
}

func TestGetReportRejectsUnknownRange(t *testing.T) {
	r := analyticsRouter(seededAnalyticsStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics?range=year", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSV(t *testing.T) {
	r := analyticsRouter(seededAnalyticsStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/export?range=week", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "crowd-analytics-week-")
	require.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Timestamp,Location,People Count")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	r := analyticsRouter(seededAnalyticsStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/export?format=pdf", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadPDF(t *testing.T) {
	r := analyticsRouter(seededAnalyticsStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/report?range=week", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}
