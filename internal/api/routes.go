package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.MonitorInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	dashboard := s.router.Group("/dashboard")
	{
		dashboard.GET("/snapshot", s.dashboardHandler.GetSnapshot)
		dashboard.POST("/refresh", s.dashboardHandler.Refresh)
		dashboard.GET("/alerts", s.dashboardHandler.GetAlerts)
	}

	readings := s.router.Group("/readings")
	{
		readings.GET("", s.readingsHandler.ListReadings)
		readings.POST("", s.readingsHandler.CreateReading)
	}

	settings := s.router.Group("/settings")
	{
		settings.GET("", s.settingsHandler.GetSettings)
		settings.PUT("", s.settingsHandler.SaveSettings)
	}

	analytics := s.router.Group("/analytics")
	{
		analytics.GET("", s.analyticsHandler.GetReport)
		analytics.GET("/export", s.analyticsHandler.Export)
		analytics.GET("/report", s.analyticsHandler.DownloadPDF)
	}

	s.router.POST("/upload", s.uploadHandler.Upload)
	s.router.Static("/uploads", s.config.UploadDir)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
		system.GET("/debug", s.systemHandler.GetDebugInfo)
	}

	if s.registry != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}
}
