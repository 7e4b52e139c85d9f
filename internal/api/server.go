package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"crowdwatch-monitor/internal/api/handlers"
	"crowdwatch-monitor/internal/api/middleware"
	"crowdwatch-monitor/internal/config"
	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/pipeline"
	"crowdwatch-monitor/internal/store"
)

// Dependencies are the collaborators the HTTP surface exposes. The server
// owns none of them; lifecycle belongs to main.
type Dependencies struct {
	Scheduler *pipeline.Scheduler
	Readings  store.ReadingStore
	Settings  store.SettingsStore
	Defaults  map[models.Location]models.ThresholdConfig
	Analyzer  handlers.Analyzer
	Evaluator *pipeline.AlertEvaluator
	Registry  *prometheus.Registry
}

type Server struct {
	config   *config.Config
	router   *gin.Engine
	server   *http.Server
	registry *prometheus.Registry

	healthHandler    *handlers.HealthHandler
	dashboardHandler *handlers.DashboardHandler
	readingsHandler  *handlers.ReadingsHandler
	settingsHandler  *handlers.SettingsHandler
	analyticsHandler *handlers.AnalyticsHandler
	uploadHandler    *handlers.UploadHandler
	systemHandler    *handlers.SystemHandler
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	return &Server{
		config:           cfg,
		router:           router,
		registry:         deps.Registry,
		healthHandler:    handlers.NewHealthHandler(cfg.MonitorID, cfg.Version),
		dashboardHandler: handlers.NewDashboardHandler(deps.Scheduler),
		readingsHandler:  handlers.NewReadingsHandler(deps.Readings, cfg.StoreListLimit),
		settingsHandler:  handlers.NewSettingsHandler(deps.Settings, deps.Defaults),
		analyticsHandler: handlers.NewAnalyticsHandler(deps.Readings),
		uploadHandler:    handlers.NewUploadHandler(cfg.UploadDir, deps.Analyzer, deps.Readings, deps.Settings, deps.Defaults, deps.Evaluator),
		systemHandler:    handlers.NewSystemHandler(cfg.MonitorID),
	}
}

func (s *Server) Setup() error {
	s.setupMiddleware()

	s.setupRoutes()

	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}

	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestContext())
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting CrowdWatch Monitor API")
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	log.Info().Msg("Stopping CrowdWatch Monitor API")
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) GetServer() *http.Server {
	return s.server
}
