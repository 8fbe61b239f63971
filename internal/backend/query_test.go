package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuery(t *testing.T, src string) map[string]any {
	t.Helper()
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(src), &q))
	return q
}

func TestCompileQueryMatchAll(t *testing.T) {
	where, params, err := compileQuery(mustQuery(t, `{"query":{"match_all":{}}}`))
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", where)
	assert.Empty(t, params)
}

func TestCompileQueryMissingQueryKey(t *testing.T) {
	where, params, err := compileQuery(mustQuery(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", where)
	assert.Empty(t, params)
}

func TestCompileQueryTerm(t *testing.T) {
	where, params, err := compileQuery(mustQuery(t, `{"query":{"term":{"user":"kim"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "json_extract(body, ?) = ?", where)
	assert.Equal(t, []any{"$.user", "kim"}, params)
}

func TestCompileQueryMatch(t *testing.T) {
	where, params, err := compileQuery(mustQuery(t, `{"query":{"match":{"title":"Hello"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "instr(lower(json_extract(body, ?)), lower(?)) > 0", where)
	assert.Equal(t, []any{"$.title", "Hello"}, params)
}

func TestCompileQueryRange(t *testing.T) {
	where, params, err := compileQuery(mustQuery(t,
		`{"query":{"range":{"age":{"gte":10,"lte":20}}}}`))
	require.NoError(t, err)
	assert.Equal(t, "(json_extract(body, ?) >= ? AND json_extract(body, ?) <= ?)", where)
	assert.Equal(t, []any{"$.age", float64(10), "$.age", float64(20)}, params)
}

func TestCompileQueryRangeUnknownBound(t *testing.T) {
	_, _, err := compileQuery(mustQuery(t, `{"query":{"range":{"age":{"around":10}}}}`))
	assert.Error(t, err)
}

func TestCompileQueryBool(t *testing.T) {
	where, params, err := compileQuery(mustQuery(t, `{"query":{"bool":{
		"must":[{"term":{"user":"kim"}}],
		"must_not":[{"term":{"draft":true}}]
	}}}`))
	require.NoError(t, err)
	assert.Equal(t,
		"((json_extract(body, ?) = ?) AND NOT (json_extract(body, ?) = ?))", where)
	assert.Equal(t, []any{"$.user", "kim", "$.draft", true}, params)
}

func TestCompileQueryBoolMustNotExcludesAnyMatch(t *testing.T) {
	where, params, err := compileQuery(mustQuery(t, `{"query":{"bool":{
		"must_not":[{"term":{"draft":true}},{"term":{"archived":true}}]
	}}}`))
	require.NoError(t, err)
	assert.Equal(t,
		"(NOT (json_extract(body, ?) = ? OR json_extract(body, ?) = ?))", where)
	assert.Equal(t, []any{"$.draft", true, "$.archived", true}, params)
}

func TestCompileQueryBoolShould(t *testing.T) {
	where, _, err := compileQuery(mustQuery(t, `{"query":{"bool":{
		"should":[{"term":{"a":1}},{"term":{"b":2}}]
	}}}`))
	require.NoError(t, err)
	assert.Equal(t,
		"((json_extract(body, ?) = ? OR json_extract(body, ?) = ?))", where)
}

func TestCompileQueryUnsupportedClause(t *testing.T) {
	_, _, err := compileQuery(mustQuery(t, `{"query":{"fuzzy":{"user":"kim"}}}`))

	var uerr *UnsupportedClauseError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "fuzzy", uerr.Clause)
}

func TestCompileQueryMultiKeyClause(t *testing.T) {
	_, _, err := compileQuery(mustQuery(t,
		`{"query":{"term":{"a":1},"match":{"b":"x"}}}`))
	assert.Error(t, err)
}
