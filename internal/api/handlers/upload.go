package handlers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"crowdwatch-monitor/internal/logging"
	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/pipeline"
	"crowdwatch-monitor/internal/services/analysis"
	"crowdwatch-monitor/internal/store"
)

// uploadDeviceID marks readings that came in through the manual upload flow
// rather than an edge device.
const uploadDeviceID = "ESP32-CAM-MANUAL"

// Analyzer is the slice of the analysis client the upload flow needs.
type Analyzer interface {
	Analyze(ctx context.Context, imageURL string) (analysis.Result, error)
}

type UploadHandler struct {
	uploadDir string
	analyzer  Analyzer
	readings  store.ReadingStore
	settings  store.SettingsStore
	defaults  map[models.Location]models.ThresholdConfig
	evaluator *pipeline.AlertEvaluator
}

func NewUploadHandler(uploadDir string, analyzer Analyzer, readings store.ReadingStore, settings store.SettingsStore, defaults map[models.Location]models.ThresholdConfig, evaluator *pipeline.AlertEvaluator) *UploadHandler {
	return &UploadHandler{
		uploadDir: uploadDir,
		analyzer:  analyzer,
		readings:  readings,
		settings:  settings,
		defaults:  defaults,
		evaluator: evaluator,
	}
}

// @Summary Upload an image for analysis
// @Description Upload a still image, run it through the analysis service and store the resulting reading
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "image to analyze"
// @Param location formData string true "monitored location"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}

	location := models.Location(c.PostForm("location"))
	if !models.ValidLocation(location) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown location"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory"})
		return
	}

	now := time.Now().UTC()
	name := fmt.Sprintf("%d_%s", now.UnixMilli(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}
	imageURL := "/uploads/" + name

	result, err := h.analyzer.Analyze(c.Request.Context(), imageURL)
	if err != nil {
		logging.Warn(c).Err(err).Str("image", name).Msg("Image analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis service unavailable"})
		return
	}

	// Manual uploads carry no sensor payload, so ambient conditions are
	// synthesized in plausible indoor ranges.
	temperature := 20 + rand.Float64()*15
	humidity := 40 + rand.Float64()*40

	created, err := h.readings.Create(c.Request.Context(), models.Reading{
		Location:        location,
		PeopleCount:     result.PeopleCount,
		ConfidenceScore: &result.ConfidenceScore,
		Timestamp:       now,
		Temperature:     &temperature,
		Humidity:        &humidity,
		DeviceID:        uploadDeviceID,
		ImageURL:        imageURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store reading"})
		return
	}

	triggered := false
	if cfg, ok := h.thresholdFor(c, location); ok && h.evaluator != nil {
		triggered, err = h.evaluator.Evaluate(c.Request.Context(), created, &cfg)
		if err != nil {
			logging.Error(c).Err(err).Str("reading_id", created.ID).Msg("Alert evaluation failed after upload")
		}
		created.AlertTriggered = triggered
	}

	c.JSON(http.StatusCreated, gin.H{
		"reading":          created,
		"people_count":     result.PeopleCount,
		"confidence_score": result.ConfidenceScore,
		"analysis_notes":   result.Notes,
		"alert_triggered":  triggered,
	})
}

func (h *UploadHandler) thresholdFor(c *gin.Context, location models.Location) (models.ThresholdConfig, bool) {
	stored, err := h.settings.List(c.Request.Context())
	if err == nil {
		for _, cfg := range stored {
			if cfg.Location == location {
				return cfg, true
			}
		}
	} else {
		logging.Warn(c).Err(err).Msg("Settings lookup failed, falling back to defaults")
	}
	cfg, ok := h.defaults[location]
	if ok {
		cfg.Location = location
	}
	return cfg, ok
}
