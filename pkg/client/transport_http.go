package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/quarrydb/quarry-go/internal/httpx"
)

// httpTransport maps ops onto the quarry HTTP API.
type httpTransport struct {
	hc *httpx.Client
}

func (t *httpTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	method, path, err := route(req)
	if err != nil {
		return nil, err
	}
	body, status, err := t.hc.Do(ctx, method, path, req.Params, req.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: status, Body: body}, nil
}

func route(req *Request) (method, path string, err error) {
	idx := url.PathEscape(req.Index)
	id := url.PathEscape(req.ID)
	switch req.Op {
	case OpIndex:
		return http.MethodPut, fmt.Sprintf("/%s/_doc/%s", idx, id), nil
	case OpGet:
		return http.MethodGet, fmt.Sprintf("/%s/_doc/%s", idx, id), nil
	case OpDelete:
		return http.MethodDelete, fmt.Sprintf("/%s/_doc/%s", idx, id), nil
	case OpUpdate:
		return http.MethodPost, fmt.Sprintf("/%s/_update/%s", idx, id), nil
	case OpSearch:
		return http.MethodPost, fmt.Sprintf("/%s/_search", idx), nil
	default:
		return "", "", fmt.Errorf("client: unknown op %q", req.Op)
	}
}
