package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"crowdwatch-monitor/internal/config"
)

// Source retrieves the raw live-count document. Fetch failures are soft
// errors at the pipeline level: the caller logs them and carries on with
// store data only.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// NewSource picks a file-backed source when FEED_PATH is set, otherwise
// an HTTP source for FEED_URL.
func NewSource(cfg *config.Config) Source {
	if cfg.FeedPath != "" {
		return &FileSource{Path: cfg.FeedPath}
	}
	return &HTTPSource{
		URL:    cfg.FeedURL,
		Client: &http.Client{Timeout: cfg.FeedTimeout},
	}
}

// HTTPSource fetches the feed document over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	// Cache-busting query param: the feed file sits behind static serving
	// and must not be served stale between cycles.
	target := s.URL
	if u, err := url.Parse(s.URL); err == nil {
		q := u.Query()
		q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request live feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("live feed returned status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read live feed body: %w", err)
	}

	return string(body), nil
}

// FileSource reads the feed document from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read live feed file: %w", err)
	}
	return string(data), nil
}
