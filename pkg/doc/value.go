package doc

import (
	"fmt"
	"sort"
	"time"
)

// Value is a sealed interface representing the node kinds a block tree may
// contain. Only the types in this package implement it: scalars (Null,
// String, Int, Float, Bool, Time, Raw), Array, *Block, and Lazy.
type Value interface {
	value() // sealed
}

// NullValue represents an explicit null.
type NullValue struct{}

func (NullValue) value() {}

// StringValue represents a string scalar.
type StringValue string

func (StringValue) value() {}

// IntValue represents an integer scalar. Always int64.
type IntValue int64

func (IntValue) value() {}

// FloatValue represents a floating-point scalar.
type FloatValue float64

func (FloatValue) value() {}

// BoolValue represents a boolean scalar.
type BoolValue bool

func (BoolValue) value() {}

// TimeValue represents a timestamp scalar. Text encodings render it as
// RFC 3339; binary encodings use their native time representation.
type TimeValue time.Time

func (TimeValue) value() {}

// RawValue is an opaque pass-through scalar. The active encoder renders the
// wrapped Go value natively; values it cannot represent fail the compile
// with *UnsupportedValueError.
type RawValue struct {
	V any
}

func (RawValue) value() {}

// ArrayValue is an ordered sequence of values. Elements may themselves be
// blocks, which serialize as objects within the array.
type ArrayValue []Value

func (ArrayValue) value() {}

// LazyValue defers evaluation of a value until compile time. The closure is
// invoked once per compile; an error aborts the whole compile wrapped in
// *CompileError.
type LazyValue func() (Value, error)

func (LazyValue) value() {}

// Null returns an explicit null value.
func Null() Value { return NullValue{} }

// String wraps a string scalar.
func String(s string) Value { return StringValue(s) }

// Int wraps an integer scalar.
func Int(n int64) Value { return IntValue(n) }

// Float wraps a floating-point scalar.
func Float(f float64) Value { return FloatValue(f) }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return BoolValue(b) }

// Time wraps a timestamp scalar.
func Time(t time.Time) Value { return TimeValue(t) }

// Raw wraps an arbitrary Go value for native rendering by the encoder.
func Raw(v any) Value { return RawValue{V: v} }

// Array builds an ordered sequence from the given values.
func Array(vals ...Value) Value { return ArrayValue(vals) }

// Lazy wraps a closure evaluated at compile time.
func Lazy(fn func() (Value, error)) Value { return LazyValue(fn) }

// From converts a plain Go value to a Value using a closed set of
// coercions. Maps are sorted by key for determinism; callers that need a
// specific key order must build a *Block instead. Unsupported kinds fail
// with *UnsupportedValueError rather than falling back to string coercion.
func From(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return NullValue{}, nil
	case Value:
		return val, nil
	case string:
		return StringValue(val), nil
	case bool:
		return BoolValue(val), nil
	case int:
		return IntValue(int64(val)), nil
	case int32:
		return IntValue(int64(val)), nil
	case int64:
		return IntValue(val), nil
	case float32:
		return FloatValue(float64(val)), nil
	case float64:
		return FloatValue(val), nil
	case time.Time:
		return TimeValue(val), nil
	case []any:
		arr := make(ArrayValue, len(val))
		for i, elem := range val {
			ev, err := From(elem)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := NewBlock()
		for _, k := range keys {
			fv, err := From(val[k])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			b.Set(k, fv)
		}
		return b, nil
	default:
		return nil, &UnsupportedValueError{Value: v}
	}
}
