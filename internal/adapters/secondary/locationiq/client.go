package locationiq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/metrics"
	"golang.org/x/time/rate"
)

const provider = "locationiq"

// Client клиент LocationIQ autocomplete
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	limiter    *rate.Limiter
	Log        *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		Log:        log,
	}
}

// Autocomplete ищет места по строке; ответ не обрезается, лимит применяет use case
func (c *Client) Autocomplete(ctx context.Context, query string) ([]domain.Place, error) {
	if c.cfg.ApiKey == "" {
		return nil, fmt.Errorf("LocationIQ API key is not set")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("locationiq rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.cfg.ApiKey)
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/autocomplete?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	metrics.ObserveUpstream(provider, start, err)
	if err != nil {
		return nil, fmt.Errorf("locationiq request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read locationiq response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("locationiq returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncate(string(body), 200),
		)
		return nil, fmt.Errorf("LocationIQ API error: %d - %s", resp.StatusCode, truncate(string(body), 300))
	}

	var items []autocompleteItem
	if err := json.Unmarshal(body, &items); err != nil {
		c.Log.Debug("unexpected locationiq response format", "body_preview", truncate(string(body), 200))
		return nil, fmt.Errorf("Unexpected response format from LocationIQ")
	}

	places := make([]domain.Place, 0, len(items))
	for _, item := range items {
		places = append(places, domain.Place{
			Description: item.DisplayName,
			PlaceID:     item.PlaceID,
			Lat:         parseCoord(item.Lat),
			Lng:         parseCoord(item.Lon),
		})
	}

	return places, nil
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
