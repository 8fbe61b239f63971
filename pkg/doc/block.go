package doc

import (
	"fmt"
	"strings"
)

// Block is an ordered mapping of field names to values, built by Set calls.
//
// Field insertion order is emission order in every encoding. Re-setting an
// existing field updates its value in place without moving its position.
// Blocks nest: a *Block is itself a Value, usable as a field value or as an
// array element.
type Block struct {
	entries []entry
	index   map[string]int
}

type entry struct {
	name string
	val  Value
}

func (*Block) value() {}

// NewBlock creates an empty block.
func NewBlock() *Block {
	return &Block{index: make(map[string]int)}
}

// Set assigns a field. The name is taken literally: a dotted name such as
// "a.b" is ONE key, never expanded into nested objects. Use SetPath for
// dot-driven nesting. Returns the block for chaining.
func (b *Block) Set(name string, v Value) *Block {
	if i, ok := b.index[name]; ok {
		b.entries[i].val = v
		return b
	}
	b.index[name] = len(b.entries)
	b.entries = append(b.entries, entry{name: name, val: v})
	return b
}

// SetPath assigns a field by dotted path, creating intermediate blocks as
// needed. "a.b" nests: {"a":{"b":...}}. An intermediate segment that already
// holds a non-block value is overwritten with a block.
func (b *Block) SetPath(path string, v Value) *Block {
	segs := strings.Split(path, ".")
	cur := b
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur.get(seg).(*Block)
		if !ok {
			next = NewBlock()
			cur.Set(seg, next)
		}
		cur = next
	}
	cur.Set(segs[len(segs)-1], v)
	return b
}

// Len returns the number of fields.
func (b *Block) Len() int { return len(b.entries) }

// Fields returns the field names in insertion order.
func (b *Block) Fields() []string {
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.name
	}
	return names
}

func (b *Block) get(name string) Value {
	if i, ok := b.index[name]; ok {
		return b.entries[i].val
	}
	return nil
}

// Pair is a typed key-value pair for positional block construction.
type Pair struct {
	Key string
	Val Value
}

// P is a shorthand Pair constructor.
// Example: Object(P("key1", String("v1")), P("key2", Int(2)))
func P(key string, val Value) Pair {
	return Pair{Key: key, Val: val}
}

// Object builds a block from positional pairs. It is pure sugar for the
// equivalent Set chain; both forms serialize identically.
func Object(pairs ...Pair) *Block {
	b := NewBlock()
	for _, p := range pairs {
		b.Set(p.Key, p.Val)
	}
	return b
}

// OrderedMap is the evaluated form of a block: field names mapped to
// resolved plain values, preserving insertion order. Nested blocks become
// nested *OrderedMap values; arrays become []any.
type OrderedMap struct {
	keys []string
	vals map[string]any
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]any)}
}

// Set assigns a key. A repeated key keeps its original position.
func (m *OrderedMap) Set(key string, v any) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value for key and whether it is present.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *OrderedMap) Keys() []string { return m.keys }

// Len returns the number of keys.
func (m *OrderedMap) Len() int { return len(m.keys) }

// OrderedMap evaluates the block into an ordered mapping, recursively
// resolving nested blocks, arrays, and lazy values. Any error raised while
// evaluating a nested value aborts the whole evaluation wrapped in
// *CompileError; no partial result is returned.
func (b *Block) OrderedMap() (*OrderedMap, error) {
	m, err := resolveBlock(b, "")
	if err != nil {
		return nil, err
	}
	return m, nil
}

func resolveBlock(b *Block, path string) (*OrderedMap, error) {
	m := NewOrderedMap()
	for _, e := range b.entries {
		v, err := resolveValue(e.val, fieldPath(path, e.name))
		if err != nil {
			return nil, err
		}
		m.Set(e.name, v)
	}
	return m, nil
}

func resolveValue(v Value, path string) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, &CompileError{Path: path, Err: &UnsupportedValueError{Value: nil}}
	case NullValue:
		return nil, nil
	case StringValue:
		return string(val), nil
	case IntValue:
		return int64(val), nil
	case FloatValue:
		return float64(val), nil
	case BoolValue:
		return bool(val), nil
	case TimeValue, RawValue:
		return val, nil
	case ArrayValue:
		out := make([]any, len(val))
		for i, elem := range val {
			ev, err := resolveValue(elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case *Block:
		if val == nil {
			return nil, &CompileError{Path: path, Err: &UnsupportedValueError{Value: val}}
		}
		return resolveBlock(val, path)
	case LazyValue:
		if val == nil {
			return nil, &CompileError{Path: path, Err: &UnsupportedValueError{Value: val}}
		}
		inner, err := val()
		if err != nil {
			return nil, &CompileError{Path: path, Err: err}
		}
		if inner == nil {
			return nil, &CompileError{Path: path, Err: &UnsupportedValueError{Value: nil}}
		}
		return resolveValue(inner, path)
	default:
		return nil, &CompileError{Path: path, Err: &UnsupportedValueError{Value: v}}
	}
}

func fieldPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
