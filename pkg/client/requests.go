package client

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/quarrydb/quarry-go/pkg/doc"
)

// IndexRequest stores a document. The body comes from either a declarative
// block (Doc) or pre-compiled bytes (Source); Doc wins when both are set.
// An empty ID is filled in by the client's ID generator.
type IndexRequest struct {
	Index  string
	ID     string
	Doc    *doc.Block
	Source []byte
}

func (r *IndexRequest) body() ([]byte, error) {
	if r.Doc != nil {
		return doc.AsBytes(r.Doc)
	}
	if r.Source == nil {
		return nil, errors.New("client: index request needs Doc or Source")
	}
	return r.Source, nil
}

// GetRequest fetches a document by index and ID.
type GetRequest struct {
	Index string
	ID    string
}

// DeleteRequest removes a document by index and ID.
type DeleteRequest struct {
	Index string
	ID    string
}

// UpdateRequest applies a partial document to an existing one. Doc or
// Source carries the fields to merge, as with IndexRequest.
type UpdateRequest struct {
	Index  string
	ID     string
	Doc    *doc.Block
	Source []byte
}

func (r *UpdateRequest) body() ([]byte, error) {
	if r.Doc != nil {
		return doc.AsBytes(r.Doc)
	}
	if r.Source == nil {
		return nil, errors.New("client: update request needs Doc or Source")
	}
	return r.Source, nil
}

// SearchRequest runs a query. Query is a declarative block compiled to the
// request body; Source is the pre-compiled escape hatch. Size and From
// page through results.
type SearchRequest struct {
	Index  string
	Query  *doc.Block
	Source []byte
	Size   int
	From   int
}

func (r *SearchRequest) body() ([]byte, error) {
	if r.Query != nil {
		return doc.AsBytes(r.Query)
	}
	if r.Source == nil {
		// An empty search matches everything.
		return doc.AsBytes(doc.NewBlock().Set("query",
			doc.NewBlock().Set("match_all", doc.NewBlock())))
	}
	return r.Source, nil
}

func (r *SearchRequest) params() url.Values {
	v := url.Values{}
	if r.Size > 0 {
		v.Set("size", strconv.Itoa(r.Size))
	}
	if r.From > 0 {
		v.Set("from", strconv.Itoa(r.From))
	}
	return v
}

// IndexResponse reports the stored document's coordinates.
type IndexResponse struct {
	Index   string `json:"index"`
	ID      string `json:"id"`
	Version int64  `json:"version"`
	Created bool   `json:"created"`
}

// GetResponse carries a fetched document. Found is false when the ID does
// not exist; Source is the stored body verbatim.
type GetResponse struct {
	Index   string          `json:"index"`
	ID      string          `json:"id"`
	Found   bool            `json:"found"`
	Version int64           `json:"version"`
	Source  json.RawMessage `json:"source,omitempty"`
}

// DeleteResponse reports whether the document existed.
type DeleteResponse struct {
	Index string `json:"index"`
	ID    string `json:"id"`
	Found bool   `json:"found"`
}

// UpdateResponse reports the updated document's coordinates.
type UpdateResponse struct {
	Index   string `json:"index"`
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// Hit is one search result.
type Hit struct {
	Index  string          `json:"index"`
	ID     string          `json:"id"`
	Source json.RawMessage `json:"source"`
}

// SearchResponse carries search results in deterministic order.
type SearchResponse struct {
	Total int64 `json:"total"`
	Hits  []Hit `json:"hits"`
}
