package client

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMePath      = "/auth/me"
	DefaultLoginPath   = "/auth/login"
	DefaultRefreshPath = "/auth/refresh"
	DefaultTimeout     = 30 * time.Second
)

// Client performs the remote calls of the session core and carries the
// bearer token stamped on authenticated requests.
type Client struct {
	BaseURL     string
	MePath      string
	LoginPath   string
	RefreshPath string
	HTTPClient  *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a Client for baseURL using the default endpoint paths.
// A non-positive timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		MePath:      DefaultMePath,
		LoginPath:   DefaultLoginPath,
		RefreshPath: DefaultRefreshPath,
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the bearer token. An empty string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return c.HTTPClient
}
