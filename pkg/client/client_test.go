package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry-go/pkg/doc"
	"github.com/quarrydb/quarry-go/pkg/future"
)

// stubTransport records requests and replays canned responses.
type stubTransport struct {
	requests []*Request
	respond  func(req *Request) (*Response, error)
}

func (s *stubTransport) Execute(_ context.Context, req *Request) (*Response, error) {
	s.requests = append(s.requests, req)
	return s.respond(req)
}

func jsonResponse(t *testing.T, v any) *Response {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return &Response{Status: http.StatusOK, Body: b}
}

func newStubClient(t *testing.T, respond func(req *Request) (*Response, error)) (*Client, *stubTransport) {
	t.Helper()
	st := &stubTransport{respond: respond}
	c, err := New(
		WithTransport(st),
		WithIDGenerator(NewFixedGenerator("id-1", "id-2", "id-3")),
	)
	require.NoError(t, err)
	return c, st
}

func TestNewRequiresTransport(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}

func TestIndexCompilesBlockBody(t *testing.T) {
	c, st := newStubClient(t, func(req *Request) (*Response, error) {
		return jsonResponse(t, IndexResponse{Index: req.Index, ID: req.ID, Version: 1, Created: true}), nil
	})

	resp, err := c.Index(context.Background(), IndexRequest{
		Index: "posts",
		ID:    "p1",
		Doc: doc.NewBlock().
			Set("title", doc.String("hello")).
			Set("views", doc.Int(3)),
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)

	require.Len(t, st.requests, 1)
	assert.Equal(t, OpIndex, st.requests[0].Op)
	assert.Equal(t, `{"title":"hello","views":3}`, string(st.requests[0].Body))
}

func TestIndexGeneratesMissingID(t *testing.T) {
	c, st := newStubClient(t, func(req *Request) (*Response, error) {
		return jsonResponse(t, IndexResponse{Index: req.Index, ID: req.ID, Created: true}), nil
	})

	resp, err := c.Index(context.Background(), IndexRequest{
		Index:  "posts",
		Source: []byte(`{"title":"x"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", resp.ID)
	assert.Equal(t, "id-1", st.requests[0].ID)
}

func TestIndexNeedsBody(t *testing.T) {
	c, _ := newStubClient(t, nil)

	_, err := c.Index(context.Background(), IndexRequest{Index: "posts"})
	assert.Error(t, err)
}

func TestSearchDefaultsToMatchAll(t *testing.T) {
	c, st := newStubClient(t, func(req *Request) (*Response, error) {
		return jsonResponse(t, SearchResponse{}), nil
	})

	_, err := c.Search(context.Background(), SearchRequest{Index: "posts"})
	require.NoError(t, err)
	assert.Equal(t, `{"query":{"match_all":{}}}`, string(st.requests[0].Body))
}

func TestSearchCompileErrorSurfaced(t *testing.T) {
	c, _ := newStubClient(t, nil)

	cause := errors.New("bad reference")
	_, err := c.Search(context.Background(), SearchRequest{
		Index: "posts",
		Query: doc.NewBlock().Set("query", doc.Lazy(func() (doc.Value, error) {
			return nil, cause
		})),
	})

	var cerr *doc.CompileError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, cause)
}

func TestSearchParams(t *testing.T) {
	c, st := newStubClient(t, func(req *Request) (*Response, error) {
		return jsonResponse(t, SearchResponse{}), nil
	})

	_, err := c.Search(context.Background(), SearchRequest{
		Index: "posts",
		Size:  5,
		From:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, "5", st.requests[0].Params.Get("size"))
	assert.Equal(t, "10", st.requests[0].Params.Get("from"))
}

func TestSearchAsyncResolves(t *testing.T) {
	c, _ := newStubClient(t, func(req *Request) (*Response, error) {
		return jsonResponse(t, SearchResponse{Total: 2, Hits: []Hit{
			{Index: "posts", ID: "a"},
			{Index: "posts", ID: "b"},
		}}), nil
	})

	f := c.SearchAsync(context.Background(), SearchRequest{Index: "posts"})

	resp, err := f.GetTimeout(time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Total)
}

func TestIndexAsyncRejectsWithRootCause(t *testing.T) {
	cause := errors.New("node down")
	c, _ := newStubClient(t, func(req *Request) (*Response, error) {
		return nil, cause
	})

	f := c.IndexAsync(context.Background(), IndexRequest{
		Index:  "posts",
		Source: []byte(`{}`),
	})

	_, err := f.GetTimeout(time.Second)
	var oerr *future.OpError
	require.ErrorAs(t, err, &oerr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, f.RootCause())
}

func TestHTTPTransportRoutes(t *testing.T) {
	tests := []struct {
		op     Op
		method string
		path   string
	}{
		{OpIndex, http.MethodPut, "/posts/_doc/p1"},
		{OpGet, http.MethodGet, "/posts/_doc/p1"},
		{OpDelete, http.MethodDelete, "/posts/_doc/p1"},
		{OpUpdate, http.MethodPost, "/posts/_update/p1"},
		{OpSearch, http.MethodPost, "/posts/_search"},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			method, path, err := route(&Request{Op: tt.op, Index: "posts", ID: "p1"})
			require.NoError(t, err)
			assert.Equal(t, tt.method, method)
			assert.Equal(t, tt.path, path)
		})
	}

	_, _, err := route(&Request{Op: Op("bogus")})
	assert.Error(t, err)
}

func TestClientAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/posts/_doc/p1", r.URL.Path)
		json.NewEncoder(w).Encode(IndexResponse{Index: "posts", ID: "p1", Version: 1, Created: true})
	}))
	defer srv.Close()

	c, err := New(WithAddr(srv.URL))
	require.NoError(t, err)

	resp, err := c.Index(context.Background(), IndexRequest{
		Index:  "posts",
		ID:     "p1",
		Source: []byte(`{"title":"x"}`),
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.EqualValues(t, 1, resp.Version)
}
