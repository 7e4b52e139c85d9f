// Package analysis wraps the external people-counting service. The service
// is opaque to the monitor: it takes an image reference and returns a count
// with a confidence score. How it counts is not this system's concern.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"crowdwatch-monitor/internal/config"
)

// Result is the analysis service's verdict for one image.
type Result struct {
	PeopleCount     int     `json:"people_count"`
	ConfidenceScore float64 `json:"confidence_score"`
	Notes           string  `json:"analysis_notes,omitempty"`
}

type analyzeRequest struct {
	ImageURL string `json:"image_url"`
}

// Client calls the analysis service over HTTP JSON.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		url:    cfg.AnalysisURL,
		client: &http.Client{Timeout: cfg.AnalysisTimeout},
	}
}

// Analyze submits an image reference and returns the detected people count.
func (c *Client) Analyze(ctx context.Context, imageURL string) (Result, error) {
	payload, err := json.Marshal(analyzeRequest{ImageURL: imageURL})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request analysis service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("analysis service returned status %s", resp.Status)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode analysis result: %w", err)
	}

	if result.PeopleCount < 0 {
		return Result{}, fmt.Errorf("analysis service returned negative count %d", result.PeopleCount)
	}
	if result.ConfidenceScore < 0 || result.ConfidenceScore > 1 {
		return Result{}, fmt.Errorf("analysis service returned confidence %g outside [0,1]", result.ConfidenceScore)
	}

	return result, nil
}
