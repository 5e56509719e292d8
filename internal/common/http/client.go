// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

const userAgent = "govscheme-workers"

// Client sends JSON requests with a fixed overall timeout.
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

// Do marks req as a JSON exchange before sending it. The request's own
// context bounds the call together with the client timeout.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return c.httpClient.Do(req)
}
