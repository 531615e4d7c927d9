package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/gammalert/pkg/logger"
)

// Client is an HTTP client wrapper with logging and optional rate limiting
// ⭐ SSOT: 모든 HTTP 요청은 이 클라이언트를 통해서만 수행
//
// Every request is a single attempt. Upstream calls in this system are
// fire-once per run; failed calls surface to the caller instead of retrying.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
}

// New creates a new HTTP client with the default 30s timeout
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(log *logger.Logger) *Client {
	return NewWithTimeout(log, 30*time.Second)
}

// NewWithTimeout creates a client with a custom timeout
func NewWithTimeout(log *logger.Logger, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// WithRateLimiter sets an in-process rate limiter for this client.
// Keeps multi-symbol runs from hammering the same provider.
func (c *Client) WithRateLimiter(r rate.Limit, burst int) *Client {
	c.limiter = rate.NewLimiter(r, burst)
	return c
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	return c.Do(req)
}

// PostJSON performs a POST request with a JSON body
func (c *Client) PostJSON(ctx context.Context, url string, data interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// Do executes a prepared request with rate limiting and logging.
// Callers that need custom headers build the request themselves.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	url := req.URL.String()
	method := req.Method

	// Wait for rate limiter
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)

	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      url,
			"duration": duration,
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}

// Timeout returns the configured per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}
