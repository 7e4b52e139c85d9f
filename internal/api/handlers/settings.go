package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdwatch-monitor/internal/logging"
	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

type SettingsHandler struct {
	settings store.SettingsStore
	defaults map[models.Location]models.ThresholdConfig
}

func NewSettingsHandler(settings store.SettingsStore, defaults map[models.Location]models.ThresholdConfig) *SettingsHandler {
	return &SettingsHandler{settings: settings, defaults: defaults}
}

// @Summary List threshold settings
// @Description Get threshold settings for every location. Locations with no stored config report their defaults.
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	stored, err := h.settings.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list settings"})
		return
	}

	byLocation := make(map[models.Location]models.ThresholdConfig, len(stored))
	for _, cfg := range stored {
		byLocation[cfg.Location] = cfg
	}

	out := make([]models.ThresholdConfig, 0, len(models.AllLocations()))
	for _, loc := range models.AllLocations() {
		if cfg, ok := byLocation[loc]; ok {
			out = append(out, cfg)
			continue
		}
		if cfg, ok := h.defaults[loc]; ok {
			cfg.Location = loc
			out = append(out, cfg)
		}
	}

	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// @Summary Replace threshold settings
// @Description Replace the full settings set: every stored config is deleted and the submitted set created in its place
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /settings [put]
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var incoming []models.ThresholdConfig
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(incoming) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one threshold config required"})
		return
	}

	seen := make(map[models.Location]bool, len(incoming))
	for _, cfg := range incoming {
		if err := cfg.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if seen[cfg.Location] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate location " + string(cfg.Location)})
			return
		}
		seen[cfg.Location] = true
	}

	ctx := c.Request.Context()

	// Full replace: drop every stored config, then create the new set. A
	// concurrent listing may observe the empty intermediate state.
	existing, err := h.settings.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list settings"})
		return
	}
	for _, cfg := range existing {
		if _, err := h.settings.Delete(ctx, cfg.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear settings"})
			return
		}
	}

	saved := make([]models.ThresholdConfig, 0, len(incoming))
	for _, cfg := range incoming {
		cfg.ID = ""
		created, err := h.settings.Create(ctx, cfg)
		if err != nil {
			logging.Error(c).Err(err).Str("location", string(cfg.Location)).Msg("Settings save failed mid-recreate")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store settings"})
			return
		}
		saved = append(saved, created)
	}

	c.JSON(http.StatusOK, gin.H{"settings": saved})
}
