package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

type ReadingsHandler struct {
	readings     store.ReadingStore
	defaultLimit int
}

func NewReadingsHandler(readings store.ReadingStore, defaultLimit int) *ReadingsHandler {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &ReadingsHandler{readings: readings, defaultLimit: defaultLimit}
}

type createReadingRequest struct {
	Location        models.Location `json:"location" binding:"required"`
	PeopleCount     *int            `json:"people_count" binding:"required"`
	ConfidenceScore *float64        `json:"confidence_score"`
	Timestamp       *time.Time      `json:"timestamp"`
	Temperature     *float64        `json:"temperature"`
	Humidity        *float64        `json:"humidity"`
	DeviceID        string          `json:"device_id"`
	ImageURL        string          `json:"image_url"`
}

// @Summary List readings
// @Description List stored occupancy readings, newest first by default
// @Tags readings
// @Produce json
// @Param limit query int false "maximum rows returned"
// @Param order query string false "timestamp or -timestamp"
// @Success 200 {object} map[string]interface{}
// @Router /readings [get]
func (h *ReadingsHandler) ListReadings(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	order := c.DefaultQuery("order", "-timestamp")
	if order != "timestamp" && order != "-timestamp" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must be timestamp or -timestamp"})
		return
	}

	readings, err := h.readings.List(c.Request.Context(), store.ListOptions{OrderBy: order, Limit: limit})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list readings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"readings": readings,
		"count":    len(readings),
	})
}

// @Summary Create a reading
// @Description Store one occupancy reading, e.g. submitted by an edge device
// @Tags readings
// @Accept json
// @Produce json
// @Success 201 {object} models.Reading
// @Failure 400 {object} map[string]interface{}
// @Router /readings [post]
func (h *ReadingsHandler) CreateReading(c *gin.Context) {
	var req createReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidLocation(req.Location) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown location"})
		return
	}
	if *req.PeopleCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "people_count must be non-negative"})
		return
	}

	timestamp := time.Now().UTC()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	created, err := h.readings.Create(c.Request.Context(), models.Reading{
		Location:        req.Location,
		PeopleCount:     *req.PeopleCount,
		ConfidenceScore: req.ConfidenceScore,
		Timestamp:       timestamp,
		Temperature:     req.Temperature,
		Humidity:        req.Humidity,
		DeviceID:        req.DeviceID,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store reading"})
		return
	}

	c.JSON(http.StatusCreated, created)
}
