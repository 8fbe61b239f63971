package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quarrydb/quarry-go/pkg/future"
)

// Index stores a document and blocks for the result.
func (c *Client) Index(ctx context.Context, req IndexRequest) (*IndexResponse, error) {
	if req.Index == "" {
		return nil, errors.New("client: index name is required")
	}
	body, err := req.body()
	if err != nil {
		return nil, err
	}
	id := req.ID
	if id == "" {
		id = c.idGen.Generate()
	}

	out := &IndexResponse{}
	if err := c.execute(ctx, &Request{Op: OpIndex, Index: req.Index, ID: id, Body: body}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// IndexAsync submits Index and returns a future resolved with the result.
func (c *Client) IndexAsync(ctx context.Context, req IndexRequest) *future.Action[*IndexResponse] {
	return submit(c, ctx, req, c.Index)
}

// Get fetches a document and blocks for the result.
func (c *Client) Get(ctx context.Context, req GetRequest) (*GetResponse, error) {
	if req.Index == "" || req.ID == "" {
		return nil, errors.New("client: get needs index and ID")
	}
	out := &GetResponse{}
	if err := c.execute(ctx, &Request{Op: OpGet, Index: req.Index, ID: req.ID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAsync submits Get and returns a future resolved with the result.
func (c *Client) GetAsync(ctx context.Context, req GetRequest) *future.Action[*GetResponse] {
	return submit(c, ctx, req, c.Get)
}

// Delete removes a document and blocks for the result.
func (c *Client) Delete(ctx context.Context, req DeleteRequest) (*DeleteResponse, error) {
	if req.Index == "" || req.ID == "" {
		return nil, errors.New("client: delete needs index and ID")
	}
	out := &DeleteResponse{}
	if err := c.execute(ctx, &Request{Op: OpDelete, Index: req.Index, ID: req.ID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAsync submits Delete and returns a future resolved with the result.
func (c *Client) DeleteAsync(ctx context.Context, req DeleteRequest) *future.Action[*DeleteResponse] {
	return submit(c, ctx, req, c.Delete)
}

// Update merges a partial document and blocks for the result.
func (c *Client) Update(ctx context.Context, req UpdateRequest) (*UpdateResponse, error) {
	if req.Index == "" || req.ID == "" {
		return nil, errors.New("client: update needs index and ID")
	}
	body, err := req.body()
	if err != nil {
		return nil, err
	}
	out := &UpdateResponse{}
	if err := c.execute(ctx, &Request{Op: OpUpdate, Index: req.Index, ID: req.ID, Body: body}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAsync submits Update and returns a future resolved with the result.
func (c *Client) UpdateAsync(ctx context.Context, req UpdateRequest) *future.Action[*UpdateResponse] {
	return submit(c, ctx, req, c.Update)
}

// Search runs a query and blocks for the result.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.Index == "" {
		return nil, errors.New("client: search needs an index")
	}
	body, err := req.body()
	if err != nil {
		return nil, err
	}
	out := &SearchResponse{}
	r := &Request{Op: OpSearch, Index: req.Index, Body: body, Params: req.params()}
	if err := c.execute(ctx, r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchAsync submits Search and returns a future resolved with the result.
func (c *Client) SearchAsync(ctx context.Context, req SearchRequest) *future.Action[*SearchResponse] {
	return submit(c, ctx, req, c.Search)
}

// submit runs op in its own goroutine and settles the returned future with
// its outcome. The executor goroutine owns the single Resolve/Reject call.
func submit[Req any, Resp any](c *Client, ctx context.Context, req Req, op func(context.Context, Req) (Resp, error)) *future.Action[Resp] {
	f := future.New[Resp]()
	go func() {
		resp, err := op(ctx, req)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(resp)
	}()
	return f
}

func (c *Client) execute(ctx context.Context, req *Request, out any) error {
	c.log.Debug("executing request",
		"op", string(req.Op),
		"index", req.Index,
		"id", req.ID,
	)

	resp, err := c.transport.Execute(ctx, req)
	if err != nil {
		c.log.Debug("request failed", "op", string(req.Op), "error", err)
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", req.Op, err)
	}
	return nil
}
