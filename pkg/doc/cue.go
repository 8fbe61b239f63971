package doc

import (
	"fmt"

	"cuelang.org/go/cue"
)

// FromCUE builds a block tree from a concrete CUE struct value, preserving
// field declaration order. Uses the CUE SDK's Go API directly (not CLI
// subprocess). The value must be fully concrete; incomplete or errored
// values fail the conversion.
func FromCUE(v cue.Value) (*Block, error) {
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("cue value: %w", err)
	}
	val, err := cueValue(v)
	if err != nil {
		return nil, err
	}
	b, ok := val.(*Block)
	if !ok {
		return nil, fmt.Errorf("cue value is %s, expected a struct", v.Kind())
	}
	return b, nil
}

func cueValue(v cue.Value) (Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return NullValue{}, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return StringValue(s), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return BoolValue(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return IntValue(n), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return FloatValue(f), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		var arr ArrayValue
		for iter.Next() {
			elem, err := cueValue(iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		b := NewBlock()
		for iter.Next() {
			name := iter.Selector().Unquoted()
			fv, err := cueValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			b.Set(name, fv)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cue kind %s is not serializable", v.Kind())
	}
}
