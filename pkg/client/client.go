// Package client is the quarry SDK surface: request builders whose document
// bodies come from declarative blocks (pkg/doc), executed synchronously or
// as futures (pkg/future) against a pluggable transport.
package client

import (
	"errors"
	"log/slog"

	"github.com/quarrydb/quarry-go/internal/httpx"
)

// Client drives a quarry backend through a Transport.
type Client struct {
	transport Transport
	log       *slog.Logger
	idGen     IDGenerator
}

// Option configures a Client.
type Option func(*Client) error

// WithAddr points the client at an HTTP backend at the given base URL.
func WithAddr(baseURL string, httpOpts ...httpx.Option) Option {
	return func(c *Client) error {
		hc, err := httpx.New(baseURL, append([]httpx.Option{
			httpx.WithHeader("Content-Type", "application/json"),
		}, httpOpts...)...)
		if err != nil {
			return err
		}
		c.transport = &httpTransport{hc: hc}
		return nil
	}
}

// WithTransport supplies a transport directly, e.g. the embedded backend.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return errors.New("client: nil transport")
		}
		c.transport = t
		return nil
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		if l != nil {
			c.log = l
		}
		return nil
	}
}

// WithIDGenerator overrides document ID generation for index requests
// submitted without an ID.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Client) error {
		if g == nil {
			return errors.New("client: nil ID generator")
		}
		c.idGen = g
		return nil
	}
}

// New creates a Client. Exactly one of WithAddr or WithTransport is
// required.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		log:   slog.Default(),
		idGen: UUIDv7Generator{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.transport == nil {
		return nil, errors.New("client: a transport is required (WithAddr or WithTransport)")
	}
	return c, nil
}
