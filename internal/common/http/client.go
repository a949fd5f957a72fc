// internal/common/http/client.go

// Package http wraps the standard client with a per-client timeout and
// context-aware dispatch. Every portal request goes through DoWithContext
// so cancellation and deadline handling sit in one place.
package http

import (
	"context"
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DoWithContext sends req bound to ctx. The client timeout still applies
// as an upper bound when ctx carries no deadline.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}
