package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/pipeline"
)

// SnapshotProvider is the slice of the refresh scheduler the dashboard
// endpoints need.
type SnapshotProvider interface {
	Snapshot() *models.Snapshot
	Refresh() bool
}

type DashboardHandler struct {
	provider SnapshotProvider
}

func NewDashboardHandler(provider SnapshotProvider) *DashboardHandler {
	return &DashboardHandler{provider: provider}
}

// @Summary Current dashboard snapshot
// @Description Get the latest computed dashboard state: per-location counts, statuses and recent alerts
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /dashboard/snapshot [get]
func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot())
}

// @Summary Trigger a refresh cycle
// @Description Run an on-demand refresh. If a cycle is already in flight the request coalesces with it.
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/refresh [post]
func (h *DashboardHandler) Refresh(c *gin.Context) {
	ran := h.provider.Refresh()
	message := "refresh cycle completed"
	if !ran {
		message = "refresh already in progress, request coalesced"
	}
	c.JSON(http.StatusOK, gin.H{
		"refreshed": ran,
		"message":   message,
	})
}

// @Summary Recent alerts
// @Description Get alert-triggered readings from the trailing one-hour window
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/alerts [get]
func (h *DashboardHandler) GetAlerts(c *gin.Context) {
	snap := h.provider.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"alerts":         snap.RecentAlerts,
		"window_minutes": int(pipeline.AlertWindow.Minutes()),
		"generated_at":   snap.GeneratedAt,
	})
}
