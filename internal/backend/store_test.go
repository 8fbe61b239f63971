package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	version, created, err := s.Put(ctx, "posts", "p1", []byte(`{"title":"hello"}`))
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	assert.True(t, created)

	d, found, err := s.Get(ctx, "posts", "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"title":"hello"}`, string(d.Body))
	assert.EqualValues(t, 1, d.Version)
}

func TestPutBumpsVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, created, err := s.Put(ctx, "posts", "p1", []byte(`{"v":1}`))
	require.NoError(t, err)
	assert.True(t, created)

	version, created, err := s.Put(ctx, "posts", "p1", []byte(`{"v":2}`))
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 2, version)
}

func TestPutRejectsInvalidJSON(t *testing.T) {
	s := openTestStore(t)

	_, _, err := s.Put(context.Background(), "posts", "p1", []byte(`{broken`))
	assert.Error(t, err)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.Get(context.Background(), "posts", "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Put(ctx, "posts", "p1", []byte(`{}`))
	require.NoError(t, err)

	found, err := s.Delete(ctx, "posts", "p1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.Delete(ctx, "posts", "p1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMerge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Put(ctx, "posts", "p1", []byte(`{"title":"hello","views":1}`))
	require.NoError(t, err)

	version, err := s.Merge(ctx, "posts", "p1", []byte(`{"views":2}`))
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)

	d, _, err := s.Get(ctx, "posts", "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"hello","views":2}`, string(d.Body))
}

func TestMergeMissingDocument(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Merge(context.Background(), "posts", "nope", []byte(`{}`))
	assert.Error(t, err)
}

func TestSearchDeterministicOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		_, _, err := s.Put(ctx, "posts", id, []byte(`{"kind":"post"}`))
		require.NoError(t, err)
	}

	q := map[string]any{"query": map[string]any{"match_all": map[string]any{}}}

	first, total, err := s.Search(ctx, "posts", q, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	second, _, err := s.Search(ctx, "posts", q, 0, 0)
	require.NoError(t, err)

	ids := func(docs []Doc) []string {
		out := make([]string, len(docs))
		for i, d := range docs {
			out[i] = d.ID
		}
		return out
	}
	// Insertion order, not lexical: seq is the primary sort key.
	assert.Equal(t, []string{"c", "a", "b"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestSearchTermFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Put(ctx, "posts", "p1", []byte(`{"user":"kim","age":15}`))
	require.NoError(t, err)
	_, _, err = s.Put(ctx, "posts", "p2", []byte(`{"user":"lee","age":30}`))
	require.NoError(t, err)

	q := map[string]any{"query": map[string]any{"term": map[string]any{"user": "kim"}}}
	docs, total, err := s.Search(ctx, "posts", q, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID)
}

func TestSearchMustNotExcludesPartialMatches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Put(ctx, "posts", "d1", []byte(`{"draft":true,"archived":false}`))
	require.NoError(t, err)
	_, _, err = s.Put(ctx, "posts", "d2", []byte(`{"draft":false,"archived":false}`))
	require.NoError(t, err)

	// A document matching any must_not clause stays excluded.
	q := map[string]any{"query": map[string]any{"bool": map[string]any{
		"must_not": []any{
			map[string]any{"term": map[string]any{"draft": true}},
			map[string]any{"term": map[string]any{"archived": true}},
		},
	}}}
	docs, total, err := s.Search(ctx, "posts", q, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, docs, 1)
	assert.Equal(t, "d2", docs[0].ID)
}

func TestSearchRangeFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Put(ctx, "posts", "p1", []byte(`{"age":15}`))
	require.NoError(t, err)
	_, _, err = s.Put(ctx, "posts", "p2", []byte(`{"age":30}`))
	require.NoError(t, err)

	q := map[string]any{"query": map[string]any{"range": map[string]any{
		"age": map[string]any{"gte": float64(10), "lte": float64(20)},
	}}}
	docs, _, err := s.Search(ctx, "posts", q, 0, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID)
}

func TestSearchPagination(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		_, _, err := s.Put(ctx, "posts", id, []byte(`{}`))
		require.NoError(t, err)
	}

	q := map[string]any{"query": map[string]any{"match_all": map[string]any{}}}
	docs, total, err := s.Search(ctx, "posts", q, 2, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total, "total counts all matches, not the page")
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)
}

func TestSearchIsolatedByIndex(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Put(ctx, "posts", "p1", []byte(`{}`))
	require.NoError(t, err)
	_, _, err = s.Put(ctx, "users", "u1", []byte(`{}`))
	require.NoError(t, err)

	q := map[string]any{"query": map[string]any{"match_all": map[string]any{}}}
	_, total, err := s.Search(ctx, "posts", q, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
