package astroApi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/metrics"
)

const provider = "astroapi"

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client клиент астрологического API (json.apiastro.com)
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	transport := &http.Transport{}

	if cfg.ShouldSkipSSL() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		Log: log,
	}
}

func (c *Client) buildURL(endpoint string) string {
	baseURL := strings.TrimSuffix(c.cfg.BaseURL, "/")
	return baseURL + "/" + strings.TrimPrefix(endpoint, "/")
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.ApiKey)
}

// FetchChart вызывает endpoint провайдера и возвращает тело ответа как есть.
// Провайдер может вернуть 200 с полем error, такой ответ тоже считается ошибкой.
func (c *Client) FetchChart(ctx context.Context, endpoint string, req domain.ChartRequest) (json.RawMessage, error) {
	if c.cfg.ApiKey == "" {
		return nil, &domain.ProviderError{Message: "Astrology API key is not set"}
	}
	if endpoint == "" {
		endpoint = domain.EndpointPlanets
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(endpoint), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(httpReq)

	start := time.Now()
	body, status, err := c.do(httpReq)
	metrics.ObserveUpstream(provider, start, err)
	if err != nil {
		return nil, err
	}

	rawJSON := string(body)

	if status != http.StatusOK {
		c.Log.Debug("astro API returned non-200 status",
			"endpoint", endpoint,
			"status_code", status,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, &domain.ProviderError{
			Message: fmt.Sprintf("API error: %d", status),
			Details: truncateString(rawJSON, 500),
		}
	}

	if !json.Valid(body) {
		c.Log.Debug("astro API returned invalid JSON",
			"endpoint", endpoint,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, &domain.ProviderError{
			Message: "Error parsing API response",
			Details: truncateString(rawJSON, 500),
		}
	}

	if providerErr, ok := inBandError(body); ok {
		c.Log.Debug("astro API returned in-band error",
			"endpoint", endpoint,
			"error", providerErr.Message,
		)
		providerErr.Details = truncateString(providerErr.Details, 500)
		return nil, providerErr
	}

	return json.RawMessage(body), nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("astro API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read astro API response: %w", err)
	}
	return body, resp.StatusCode, nil
}
