package api

import (
	"net/http"

	_ "crowdwatch-monitor/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "CrowdWatch Monitor API",
			"version":     s.config.Version,
			"description": "Crowd density monitoring API for live feed ingestion, threshold alerting, and analytics",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"health":    "/health",
				"dashboard": "/dashboard",
				"readings":  "/readings",
				"settings":  "/settings",
				"analytics": "/analytics",
				"upload":    "/upload",
				"system":    "/system",
				"metrics":   "/metrics",
			},
			"monitor_id": s.config.MonitorID,
			"port":       s.config.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}
