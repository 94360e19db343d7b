// Package api is the HTTP client for the feature store comparison backends.
// It speaks the four JSON endpoints the dashboard consumes and classifies
// failures as network, status or decode errors.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	fsderrors "github.com/jontk/fsdash/internal/errors"
)

const maxErrorBody = 512

// Client talks to the basic and optimized feature endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	config     ClientConfig
}

// ClientConfig contains configuration for the client
type ClientConfig struct {
	// BaseURL is the scheme and host the endpoints live under
	BaseURL string

	// Timeout bounds each request; zero leaves it to the transport
	Timeout time.Duration

	// UserAgent is sent with every request when set
	UserAgent string

	// Transport overrides the default transport, mainly for tests
	Transport http.RoundTripper
}

// NewClient creates a new backend client
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fsderrors.Invalid("base URL", "is required")
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fsderrors.Wrap(err, fsderrors.ErrorTypeValidation, "invalid base URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fsderrors.Invalid("base URL", fmt.Sprintf("%q must be an absolute http(s) URL", config.BaseURL))
	}

	transport := config.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config: config,
	}, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Stats fetches the aggregate statistics snapshot
func (c *Client) Stats(ctx context.Context) (*AggregateStats, error) {
	var wire wireStats
	if err := c.getJSON(ctx, "/stats", &wire); err != nil {
		return nil, err
	}

	stats, err := wire.toStats()
	if err != nil {
		return nil, fsderrors.Decode("/stats", err)
	}
	return stats, nil
}

// Basic fetches features for userID through the basic implementation
func (c *Client) Basic(ctx context.Context, userID int) (*FeatureResponse, error) {
	return c.features(ctx, "/basic/"+strconv.Itoa(userID))
}

// Optimized fetches features for userID through the optimized implementation
func (c *Client) Optimized(ctx context.Context, userID int) (*FeatureResponse, error) {
	return c.features(ctx, "/optimized/"+strconv.Itoa(userID))
}

// Health checks the backend health endpoint
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, "/health", &status); err != nil {
		return nil, err
	}
	if status.Status == "" {
		return nil, fsderrors.Decode("/health", fmt.Errorf("missing status"))
	}
	return &status, nil
}

// Close closes idle connections
func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}

func (c *Client) features(ctx context.Context, path string) (*FeatureResponse, error) {
	var wire wireFeatures
	if err := c.getJSON(ctx, path, &wire); err != nil {
		return nil, err
	}

	resp, err := wire.toResponse()
	if err != nil {
		return nil, fsderrors.Decode(path, err)
	}
	return resp, nil
}

// getJSON performs a GET and decodes a 2xx JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fsderrors.Request(path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fsderrors.Request(path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fsderrors.Status(path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fsderrors.Decode(path, err)
	}
	return nil
}
