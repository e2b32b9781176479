package wttr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/iaintshootinmis/MeshWttr/internal/domain"
	"github.com/iaintshootinmis/MeshWttr/internal/observability"
	"github.com/sony/gobreaker"
)

// Client fetches weather reports from wttr.in in j1 JSON format. A
// circuit breaker sits in front so the beacon daemon stops hammering
// the service during an outage; for the one-shot CLI it never trips.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a wttr.in client with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "wttr",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://wttr.in",
		breaker:    cb,
		logger:     logger,
		metrics:    metrics,
	}
}

// SetBaseURL points the client at a different endpoint, for tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Fetch retrieves the weather report for a location. The location is a
// free-form string: city name, postal code, airport code, or "auto".
// Timeouts, connection errors, bad statuses, and malformed bodies are
// all just a fetch failure to the caller; the sub-cause lands in the
// error text for the logs.
func (c *Client) Fetch(ctx context.Context, location string) (domain.Report, error) {
	start := time.Now()
	report, err := c.fetch(ctx, location)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.FetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.FetchesTotal.WithLabelValues("success").Inc()
	c.logger.Debug("weather report fetched", "location", location, "duration", time.Since(start))
	return report, nil
}

func (c *Client) fetch(ctx context.Context, location string) (domain.Report, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, location)
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Report), nil
}

func (c *Client) doRequest(ctx context.Context, location string) (domain.Report, error) {
	u := fmt.Sprintf("%s/%s?format=j1", c.baseURL, url.PathEscape(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wttr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("wttr.in status %d: %s", resp.StatusCode, body)
	}

	var report domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}
