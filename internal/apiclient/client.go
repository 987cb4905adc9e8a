// Package apiclient is the JSON transport to the finance backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mrlokans/fintrack/internal/logging"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:5000/api"

	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

// Client sends JSON requests to the finance backend. Cookies for the backend
// are taken from and stored into the http.Client's jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			copied := *hc
			c.httpClient = &copied
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.Component(logger, logging.ComponentAPI)
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.Component(nil, logging.ComponentAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithJar returns a shallow copy of the client that uses jar for cookies.
func (c *Client) WithJar(jar http.CookieJar) *Client {
	hc := *c.httpClient
	hc.Jar = jar
	return &Client{
		baseURL:    c.baseURL,
		httpClient: &hc,
		logger:     c.logger,
	}
}

// Do sends a request to endpoint (relative to the base URL). A non-nil body
// is JSON-encoded; a 2xx response body is decoded into out when out is non-nil
// and the body is not empty.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	label := endpointLabel(endpoint)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	backendRequestDuration.WithLabelValues(method, label).Observe(duration.Seconds())
	if err != nil {
		backendRequestsTotal.WithLabelValues(method, label, outcomeLabel(0, err)).Inc()
		c.logger.Debug("backend request failed",
			"method", method, "url", url, "duration", duration, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	backendRequestsTotal.WithLabelValues(method, label, outcomeLabel(resp.StatusCode, nil)).Inc()
	c.logger.Debug("backend request",
		"method", method, "url", url, "status", resp.StatusCode, "duration", duration)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the backend's message or error field.
func errorMessage(data []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// Get sends a GET and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodGet, endpoint, nil, &out)
	return out, err
}

// Post sends a POST with body and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodPost, endpoint, body, &out)
	return out, err
}

// Put sends a PUT with body and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodPut, endpoint, body, &out)
	return out, err
}

// Delete sends a DELETE and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodDelete, endpoint, nil, &out)
	return out, err
}

// Ping checks that the backend answers HTTP at all. Any status counts as
// reachable; only transport failures are returned.
func (c *Client) Ping(ctx context.Context) error {
	err := c.Do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if IsNetworkError(err) {
		return err
	}
	return nil
}
