package doc

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// encodeJSON streams an ordered map to compact JSON, emitting keys in
// insertion order. Scalar encoding delegates to encoding/json so numbers
// and strings match what a stock decoder expects; HTML characters are not
// escaped (payloads are request bodies, not web content).
func encodeJSON(m *OrderedMap, canonical bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONMap(&buf, m, canonical); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSONMap(buf *bytes.Buffer, m *OrderedMap, canonical bool) error {
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, k, canonical); err != nil {
			return err
		}
		buf.WriteByte(':')
		v, _ := m.Get(k)
		if err := writeJSONValue(buf, v, canonical); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v any, canonical bool) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		return writeJSONString(buf, val, canonical)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		b, err := json.Marshal(val)
		if err != nil {
			return &EncodeError{Encoding: JSON, Err: err}
		}
		buf.Write(b)
	case TimeValue:
		return writeJSONString(buf, time.Time(val).Format(time.RFC3339Nano), canonical)
	case RawValue:
		b, err := json.Marshal(val.V)
		if err != nil {
			return &UnsupportedValueError{Value: val.V}
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, elem, canonical); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *OrderedMap:
		return writeJSONMap(buf, val, canonical)
	default:
		return &UnsupportedValueError{Value: v}
	}
	return nil
}

// writeJSONString encodes a string without HTML escaping. With canonical
// set, the string is NFC normalized at the serialization boundary.
func writeJSONString(buf *bytes.Buffer, s string, canonical bool) error {
	if canonical {
		s = norm.NFC.String(s)
	}

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return &EncodeError{Encoding: JSON, Err: err}
	}

	// json.Encoder appends a trailing newline.
	out := tmp.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
	return nil
}
