// Package source fetches raw metric responses from the metrics endpoint.
package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pulsestation/pulse/internal/errors"
)

// Defaults for the metrics endpoint.
const (
	DefaultURL     = "http://localhost:8000/api/data"
	DefaultTimeout = 10 * time.Second

	maxBodySize = 32 << 20
)

// Response is a raw endpoint response.
type Response struct {
	StatusCode int
	Body       []byte
	// ServerTime is taken from the Date header, zero when absent.
	ServerTime time.Time
	// Elapsed is the round-trip time of the request.
	Elapsed time.Duration
}

// OK reports whether the endpoint answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher retrieves one response from the endpoint.
type Fetcher interface {
	Fetch(ctx context.Context) (*Response, error)
}

// Client fetches from an HTTP endpoint.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for url. A non-positive timeout uses DefaultTimeout.
func New(url string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{url: url, timeout: timeout, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint URL.
func (c *Client) URL() string { return c.url }

// Fetch performs one GET against the endpoint. Any status is returned as a
// Response so the caller can read an error body; only failures to obtain a
// response at all are errors, all with code ErrTransport.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid metrics URL %q", c.url),
			"Set source.url to a full http:// or https:// URL")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Elapsed:    time.Since(start),
	}
	if date := resp.Header.Get("Date"); date != "" {
		if t, err := http.ParseTime(date); err == nil {
			out.ServerTime = t
		}
	}
	return out, nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Metrics request timed out after %s", c.timeout),
			"Raise source.timeout or check the metrics server load")
	}
	return errors.WrapWithCode(err, errors.ErrTransport,
		fmt.Sprintf("Could not reach metrics endpoint %s", c.url),
		"Check that the metrics server is running and source.url is correct")
}

// StatusError reports a non-2xx response whose body did not explain itself.
func StatusError(resp *Response) error {
	return errors.New(errors.ErrTransport,
		fmt.Sprintf("Metrics endpoint answered HTTP %d", resp.StatusCode),
		"Check the metrics server logs")
}
