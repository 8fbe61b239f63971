package doc

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCUEPreservesDeclarationOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		query: {
			term: {
				test: "value"
			}
		}
		size: 5
	`)
	require.NoError(t, v.Err())

	b, err := FromCUE(v)
	require.NoError(t, err)

	out, err := AsString(b)
	require.NoError(t, err)
	assert.Equal(t, `{"query":{"term":{"test":"value"}},"size":5}`, out)
}

func TestFromCUEScalarKinds(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		s: "text"
		n: 42
		f: 1.5
		b: true
		nothing: null
		list: [1, 2, 3]
	`)
	require.NoError(t, v.Err())

	b, err := FromCUE(v)
	require.NoError(t, err)

	out, err := AsString(b)
	require.NoError(t, err)
	assert.Equal(t, `{"s":"text","n":42,"f":1.5,"b":true,"nothing":null,"list":[1,2,3]}`, out)
}

func TestFromCUENonStruct(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`42`)
	require.NoError(t, v.Err())

	_, err := FromCUE(v)
	assert.Error(t, err)
}
