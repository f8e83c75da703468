// Package nextcloud is a minimal client for the Nextcloud OCS provisioning
// API. Each call is a single request: nothing is cached or retried.
package nextcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	ocsPrefix      = "/ocs/v1.php/cloud"

	// OCS status codes carried in ocs.meta.statuscode.
	ocsStatusOK           = 100
	ocsStatusUnauthorized = 997
)

// Client talks to one Nextcloud server with fixed admin credentials.
type Client struct {
	baseURL  string
	username string
	password string
	timeout  time.Duration
	client   *http.Client
	log      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		username: username,
		password: password,
		timeout:  defaultTimeout,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Result is a successful (HTTP 200 or 201) response. Content is nil when
// the body is not a JSON object.
type Result struct {
	StatusCode int
	Content    map[string]any
	Raw        []byte

	contentType string
}

// Call sends one request to {baseURL}/ocs/v1.php/cloud{path}. Only GET and
// POST are supported; body is JSON-encoded and sent with POST only.
func (c *Client) Call(ctx context.Context, method, path string, body any) (*Result, error) {
	method = strings.ToUpper(method)
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("nextcloud: unsupported method %q", method)
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := c.baseURL + ocsPrefix + path

	var reader io.Reader
	if method == http.MethodPost {
		if body == nil {
			body = map[string]any{}
		}
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("nextcloud: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("nextcloud: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OCS-APIRequest", "true")
	req.SetBasicAuth(c.username, c.password)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("nextcloud request failed",
			zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	c.log.Debug("nextcloud request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil {
		content = nil
	}

	if resp.StatusCode == http.StatusUnauthorized || ocsStatus(content) == ocsStatusUnauthorized {
		return nil, &AuthError{StatusCode: resp.StatusCode}
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	default:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Header.Get("Content-Type"), raw),
		}
	}

	return &Result{
		StatusCode:  resp.StatusCode,
		Content:     content,
		Raw:         raw,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}
