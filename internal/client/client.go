// Package client talks to the training scenario service over plain HTTP GET.
// Every call is a fresh request: there are no retries and no caching.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"servertrain/internal/scenario"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a single request when none is configured.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// Client is the scenario service client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger. The client logs under the "client" name.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the service at baseURL, e.g. "http://127.0.0.1:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListModules fetches the module catalog, in server order.
func (c *Client) ListModules(ctx context.Context) ([]scenario.Module, error) {
	endpoint := "/modules"
	var modules []scenario.Module
	if err := c.getJSON(ctx, endpoint, &modules); err != nil {
		return nil, err
	}
	for i, m := range modules {
		if err := m.Validate(); err != nil {
			return nil, &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: fmt.Errorf("module %d: %w", i, err)}
		}
	}
	return modules, nil
}

// GetScenario fetches one scenario of a module.
func (c *Client) GetScenario(ctx context.Context, moduleID, scenarioID string) (*scenario.Envelope, error) {
	endpoint := fmt.Sprintf("/modules/%s/scenario/%s", url.PathEscape(moduleID), url.PathEscape(scenarioID))
	var env scenario.Envelope
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, err
	}
	if err := env.Validate(); err != nil {
		return nil, &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: err}
	}
	return &env, nil
}

// HealthStatus is the body of GET /.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var hs HealthStatus
	if err := c.getJSON(ctx, "/", &hs); err != nil {
		return nil, err
	}
	return &hs, nil
}

// RawModule fetches a module file exactly as the service stores it.
func (c *Client) RawModule(ctx context.Context, moduleID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/modules/%s/raw", url.PathEscape(moduleID))
	var raw json.RawMessage
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("endpoint", endpoint), zap.String("request_id", requestID))
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return &FetchError{Kind: KindNetwork, Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return &FetchError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("Unexpected status")
		return &FetchError{
			Kind:     KindStatus,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("Failed to read body", zap.Error(err))
		return &FetchError{Kind: KindNetwork, Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn("Failed to decode body", zap.Error(err))
		return &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: err}
	}
	if isJSONNull(data) {
		return &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: errors.New("empty JSON document")}
	}

	log.Debug("Request complete")
	return nil
}

func isJSONNull(data []byte) bool {
	return strings.TrimSpace(string(data)) == "null"
}
