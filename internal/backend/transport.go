package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quarrydb/quarry-go/pkg/client"
)

// Transport adapts a Store to the client transport contract so the SDK can
// run fully embedded.
type Transport struct {
	store *Store
}

// NewTransport wraps a store.
func NewTransport(s *Store) *Transport {
	return &Transport{store: s}
}

// Execute dispatches one request against the embedded store and encodes
// the result in the same shape as the HTTP service.
func (t *Transport) Execute(ctx context.Context, req *client.Request) (*client.Response, error) {
	switch req.Op {
	case client.OpIndex:
		return t.index(ctx, req)
	case client.OpGet:
		return t.get(ctx, req)
	case client.OpDelete:
		return t.delete(ctx, req)
	case client.OpUpdate:
		return t.update(ctx, req)
	case client.OpSearch:
		return t.search(ctx, req)
	default:
		return nil, fmt.Errorf("backend: unknown op %q", req.Op)
	}
}

func (t *Transport) index(ctx context.Context, req *client.Request) (*client.Response, error) {
	version, created, err := t.store.Put(ctx, req.Index, req.ID, req.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: index: %w", err)
	}
	return respond(client.IndexResponse{
		Index:   req.Index,
		ID:      req.ID,
		Version: version,
		Created: created,
	})
}

func (t *Transport) get(ctx context.Context, req *client.Request) (*client.Response, error) {
	d, found, err := t.store.Get(ctx, req.Index, req.ID)
	if err != nil {
		return nil, fmt.Errorf("backend: get: %w", err)
	}
	resp := client.GetResponse{Index: req.Index, ID: req.ID, Found: found}
	if found {
		resp.Version = d.Version
		resp.Source = json.RawMessage(d.Body)
	}
	return respond(resp)
}

func (t *Transport) delete(ctx context.Context, req *client.Request) (*client.Response, error) {
	found, err := t.store.Delete(ctx, req.Index, req.ID)
	if err != nil {
		return nil, fmt.Errorf("backend: delete: %w", err)
	}
	return respond(client.DeleteResponse{Index: req.Index, ID: req.ID, Found: found})
}

func (t *Transport) update(ctx context.Context, req *client.Request) (*client.Response, error) {
	version, err := t.store.Merge(ctx, req.Index, req.ID, req.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: update: %w", err)
	}
	return respond(client.UpdateResponse{Index: req.Index, ID: req.ID, Version: version})
}

func (t *Transport) search(ctx context.Context, req *client.Request) (*client.Response, error) {
	var query map[string]any
	if len(req.Body) > 0 {
		if err := json.Unmarshal(req.Body, &query); err != nil {
			return nil, fmt.Errorf("backend: decode query: %w", err)
		}
	}

	size, from := 0, 0
	if req.Params != nil {
		fmt.Sscan(req.Params.Get("size"), &size)
		fmt.Sscan(req.Params.Get("from"), &from)
	}

	docs, total, err := t.store.Search(ctx, req.Index, query, size, from)
	if err != nil {
		return nil, fmt.Errorf("backend: search: %w", err)
	}

	resp := client.SearchResponse{Total: total, Hits: make([]client.Hit, len(docs))}
	for i, d := range docs {
		resp.Hits[i] = client.Hit{Index: d.Index, ID: d.ID, Source: json.RawMessage(d.Body)}
	}
	return respond(resp)
}

func respond(v any) (*client.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("backend: encode response: %w", err)
	}
	return &client.Response{Status: http.StatusOK, Body: body}, nil
}
