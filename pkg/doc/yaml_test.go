package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAMLPreservesKeyOrder(t *testing.T) {
	src := []byte(`
query:
  term:
    test: value
size: 5
`)
	b, err := FromYAML(src)
	require.NoError(t, err)

	out, err := AsString(b)
	require.NoError(t, err)
	assert.Equal(t, `{"query":{"term":{"test":"value"}},"size":5}`, out)
}

func TestFromYAMLScalarTags(t *testing.T) {
	src := []byte(`
s: text
n: 42
f: 1.5
b: true
nothing: null
list: [1, two, false]
`)
	b, err := FromYAML(src)
	require.NoError(t, err)

	out, err := AsString(b)
	require.NoError(t, err)
	assert.Equal(t, `{"s":"text","n":42,"f":1.5,"b":true,"nothing":null,"list":[1,"two",false]}`, out)
}

func TestFromYAMLNonMappingRoot(t *testing.T) {
	_, err := FromYAML([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestFromYAMLEmpty(t *testing.T) {
	_, err := FromYAML(nil)
	assert.Error(t, err)
}
