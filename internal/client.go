package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	responseFormat = "1.8.0"
	sdkName        = "restate-go"

	headerProject         = "X-Appwrite-Project"
	headerResponseFormat  = "X-Appwrite-Response-Format"
	headerPackageName     = "X-Appwrite-Package-Name"
	headerSDKName         = "X-SDK-Name"
	headerFallbackCookies = "X-Fallback-Cookies"
)

// Client is the connection handle to the backend. Endpoint, project and
// platform never change after NewClient; only the session cookie does.
type Client struct {
	endpoint string
	project  string
	platform string
	http     *http.Client

	mu     sync.RWMutex
	cookie string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request; zero leaves the transport default.
// The HTTP client is copied, so a shared one is left untouched.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// NewClient creates a connection handle from a validated config
func NewClient(cfg *Config, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		project:  cfg.ProjectID,
		platform: cfg.Platform,
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the API base URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Project returns the project id
func (c *Client) Project() string {
	return c.project
}

// SetSessionCookie attaches a session cookie to subsequent requests
func (c *Client) SetSessionCookie(cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookie = cookie
}

// SessionCookie returns the cookie currently attached, if any
func (c *Client) SessionCookie() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookie
}

// call performs one request against path (relative to the endpoint) and
// decodes a JSON response into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, path string, params url.Values, body interface{}, out interface{}) error {
	u := c.endpoint + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(headerProject, c.project)
	req.Header.Set(headerResponseFormat, responseFormat)
	req.Header.Set(headerPackageName, c.platform)
	req.Header.Set(headerSDKName, sdkName)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie := c.SessionCookie(); cookie != "" {
		req.Header.Set(headerFallbackCookies, cookie)
	}

	LogDebug("%s %s", method, u)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if cookie := resp.Header.Get(headerFallbackCookies); cookie != "" {
		c.SetSessionCookie(cookie)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Code: resp.StatusCode}
		if len(data) == 0 || json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Code = resp.StatusCode
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
