package client

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout. A client passed to WithHTTPClient is copied, not modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = timeout
		c.http = &hc
	}
}

// WithDialer sets the websocket dialer used by Watch.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}
