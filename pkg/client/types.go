package client

import (
	"context"
	"net/url"
)

// Op names a request kind understood by every Transport.
type Op string

const (
	OpIndex  Op = "index"
	OpGet    Op = "get"
	OpDelete Op = "delete"
	OpUpdate Op = "update"
	OpSearch Op = "search"
)

// Request is the transport-level form of one operation: an op, target
// coordinates, and an optional compiled document body (JSON bytes).
type Request struct {
	Op     Op
	Index  string
	ID     string
	Body   []byte
	Params url.Values
}

// Response is the raw result of executing a Request.
type Response struct {
	Status int
	Body   []byte
}

// Transport executes requests against a backend: the HTTP service in
// production, or the embedded sqlite backend in local mode and tests.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// IDGenerator produces document IDs when a caller indexes without one.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}
