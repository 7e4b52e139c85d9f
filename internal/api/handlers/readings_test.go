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

	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store/memory"
)

func readingsRouter(s *memory.ReadingStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReadingsHandler(s, 100)
	r := gin.New()
	r.GET("/readings", h.ListReadings)
	r.POST("/readings", h.CreateReading)
	return r
}

func TestListReadingsNewestFirst(t *testing.T) {
	s := memory.NewReadingStore()
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	s.Seed(
		models.Reading{Location: models.LocationMainEntrance, PeopleCount: 1, Timestamp: base},
		models.Reading{Location: models.LocationMainEntrance, PeopleCount: 2, Timestamp: base.Add(time.Minute)},
	)

	r := readingsRouter(s)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Readings []models.Reading `json:"readings"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	require.Equal(t, 2, body.Readings[0].PeopleCount)
}

func TestListReadingsRejectsBadParams(t *testing.T) {
	r := readingsRouter(memory.NewReadingStore())

	for _, target := range []string{
		"/readings?limit=0",
		"/readings?limit=abc",
		"/readings?order=people_count",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestCreateReading(t *testing.T) {
	s := memory.NewReadingStore()
	r := readingsRouter(s)

	payload := `{"location":"food_court","people_count":17,"device_id":"ESP32-CAM-02","temperature":23.5}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/readings", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, 17, created.PeopleCount)
	require.False(t, created.Timestamp.IsZero())
}

func TestCreateReadingValidation(t *testing.T) {
	r := readingsRouter(memory.NewReadingStore())

	for name, payload := range map[string]string{
		"missing count":  `{"location":"food_court"}`,
		"negative count": `{"location":"food_court","people_count":-1}`,
		"bad location":   `{"location":"lobby","people_count":5}`,
		"no location":    `{"people_count":5}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/readings", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestCreateReadingZeroCountAllowed(t *testing.T) {
	r := readingsRouter(memory.NewReadingStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/readings", strings.NewReader(`{"location":"food_court","people_count":0}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
}
