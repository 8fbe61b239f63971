package doc

import (
	"bytes"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

// encodeMsgPack streams an ordered map as a msgpack map, writing the length
// header first and then key/value pairs in insertion order.
func encodeMsgPack(m *OrderedMap, canonical bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := writeMsgPackMap(enc, m, canonical); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMsgPackMap(enc *msgpack.Encoder, m *OrderedMap, canonical bool) error {
	if err := enc.EncodeMapLen(m.Len()); err != nil {
		return &EncodeError{Encoding: MsgPack, Err: err}
	}
	for _, k := range m.Keys() {
		key := k
		if canonical {
			key = norm.NFC.String(key)
		}
		if err := enc.EncodeString(key); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
		v, _ := m.Get(k)
		if err := writeMsgPackValue(enc, v, canonical); err != nil {
			return err
		}
	}
	return nil
}

func writeMsgPackValue(enc *msgpack.Encoder, v any, canonical bool) error {
	switch val := v.(type) {
	case nil:
		if err := enc.EncodeNil(); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
	case string:
		if canonical {
			val = norm.NFC.String(val)
		}
		if err := enc.EncodeString(val); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
	case bool:
		if err := enc.EncodeBool(val); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
	case int64:
		if err := enc.EncodeInt(val); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
	case float64:
		if err := enc.EncodeFloat64(val); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
	case TimeValue:
		if err := enc.EncodeTime(time.Time(val)); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
	case RawValue:
		if err := enc.Encode(val.V); err != nil {
			return &UnsupportedValueError{Value: val.V}
		}
	case []any:
		if err := enc.EncodeArrayLen(len(val)); err != nil {
			return &EncodeError{Encoding: MsgPack, Err: err}
		}
		for _, elem := range val {
			if err := writeMsgPackValue(enc, elem, canonical); err != nil {
				return err
			}
		}
	case *OrderedMap:
		return writeMsgPackMap(enc, val, canonical)
	default:
		return &UnsupportedValueError{Value: v}
	}
	return nil
}
