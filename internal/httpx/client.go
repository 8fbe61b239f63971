// Package httpx is a small retrying HTTP helper for the quarry transport.
package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RetryPolicy controls retries for transient failures.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
	// RetryIf decides whether a response or transport error is retryable.
	// Defaults to retrying transport errors and 5xx statuses.
	RetryIf func(resp *http.Response, err error) bool
}

// DefaultRetryPolicy is a conservative policy suited to request bodies that
// are safe to resend.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.hc = h
		}
	}
}

// WithHeader adds a default header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithRetryPolicy overrides the default retry configuration.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// Client wraps http.Client with a base URL, default headers, and retries.
// Request bodies are byte slices (compiled documents), so every attempt can
// resend the same payload.
type Client struct {
	base    *url.URL
	hc      *http.Client
	headers http.Header
	policy  RetryPolicy
}

// New creates a Client for the provided base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("httpx: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpx: invalid base URL: %w", err)
	}

	c := &Client{
		base:    parsed,
		hc:      &http.Client{Timeout: 10 * time.Second},
		headers: make(http.Header),
		policy:  DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy.MaxRetries < 0 {
		c.policy.MaxRetries = 0
	}
	if c.policy.BaseDelay <= 0 {
		c.policy.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if c.policy.MaxDelay <= 0 {
		c.policy.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	return c, nil
}

// Do sends one request and returns the response body. Non-2xx statuses
// return *HTTPError carrying the status and body. Transient failures are
// retried per the policy with exponential backoff.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, int, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	retryIf := c.policy.RetryIf
	if retryIf == nil {
		retryIf = defaultRetryIf
	}
	backoff := NewBackoff(c.policy.BaseDelay, c.policy.MaxDelay, c.policy.Jitter)

	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff.ForAttempt(attempt - 1)):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}

		data, status, err := c.send(ctx, method, u.String(), body)
		if err == nil {
			return data, status, nil
		}
		lastErr = err

		var herr *HTTPError
		retryableStatus := errors.As(err, &herr) && retryIf(&http.Response{StatusCode: herr.Status}, nil)
		retryableTransport := herr == nil && retryIf(nil, err)
		if !retryableStatus && !retryableTransport {
			return nil, status, err
		}
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
	}
	return nil, 0, lastErr
}

func (c *Client) send(ctx context.Context, method, rawURL string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("httpx: build request: %w", err)
	}
	for k, vals := range c.headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpx: %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("httpx: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &HTTPError{Status: resp.StatusCode, Body: data, Path: req.URL.Path}
	}
	return data, resp.StatusCode, nil
}

func defaultRetryIf(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp != nil && resp.StatusCode >= 500
}
