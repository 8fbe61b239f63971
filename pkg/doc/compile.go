package doc

import (
	"fmt"
	"io"
)

// Encoding selects the serialization format for a compile. The set is
// closed: JSON (default, text), YAML (text), MsgPack (binary).
type Encoding int

const (
	// JSON is the default text encoding.
	JSON Encoding = iota
	// YAML is the verbose text encoding.
	YAML
	// MsgPack is the compact binary encoding. It cannot be rendered as a
	// string; Document.String fails with *BinaryEncodingError.
	MsgPack
)

// String returns the encoding's conventional name.
func (e Encoding) String() string {
	switch e {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case MsgPack:
		return "msgpack"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// ParseEncoding maps a name to an Encoding. Unknown names fail with
// *UnsupportedEncodingError.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	case "msgpack":
		return MsgPack, nil
	default:
		return Encoding(-1), &UnsupportedEncodingError{Encoding: Encoding(-1), Name: name}
	}
}

func (e Encoding) binary() bool { return e == MsgPack }

// Document holds a compiled payload together with the encoding that
// produced it.
type Document struct {
	enc  Encoding
	data []byte
}

// Encoding returns the encoding the document was compiled with.
func (d *Document) Encoding() Encoding { return d.enc }

// Bytes returns the serialized payload.
func (d *Document) Bytes() []byte { return d.data }

// String returns the payload as text. Binary-only encodings fail with
// *BinaryEncodingError.
func (d *Document) String() (string, error) {
	if d.enc.binary() {
		return "", &BinaryEncodingError{Encoding: d.enc}
	}
	return string(d.data), nil
}

// WriteTo writes the payload to w, satisfying io.WriterTo. A write failure
// surfaces as *EncodeError.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	if err != nil {
		return int64(n), &EncodeError{Encoding: d.enc, Err: err}
	}
	return int64(n), nil
}

// CompileOption adjusts a single compile call.
type CompileOption func(*compileConfig)

type compileConfig struct {
	canonical bool
}

// Canonical enables NFC normalization of keys and string scalars, producing
// a canonical form suitable for content-keyed de-duplication. Off by
// default: payload bytes are the caller's exact text.
func Canonical() CompileOption {
	return func(c *compileConfig) { c.canonical = true }
}

// Compile evaluates the block tree and serializes it with the given
// encoding. Evaluation is depth-first; field insertion order determines
// emission order at every level. Compiling the same tree twice produces
// byte-identical output as long as no embedded Lazy value is itself
// non-deterministic.
func Compile(b *Block, enc Encoding, opts ...CompileOption) (*Document, error) {
	cfg := compileConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := b.OrderedMap()
	if err != nil {
		return nil, err
	}

	var data []byte
	switch enc {
	case JSON:
		data, err = encodeJSON(m, cfg.canonical)
	case YAML:
		data, err = encodeYAML(m, cfg.canonical)
	case MsgPack:
		data, err = encodeMsgPack(m, cfg.canonical)
	default:
		return nil, &UnsupportedEncodingError{Encoding: enc}
	}
	if err != nil {
		return nil, err
	}

	return &Document{enc: enc, data: data}, nil
}

// AsBytes compiles the tree with the default JSON encoding and returns the
// payload.
func AsBytes(b *Block, opts ...CompileOption) ([]byte, error) {
	d, err := Compile(b, JSON, opts...)
	if err != nil {
		return nil, err
	}
	return d.Bytes(), nil
}

// AsString compiles the tree with the default JSON encoding and returns the
// payload as text.
func AsString(b *Block, opts ...CompileOption) (string, error) {
	d, err := Compile(b, JSON, opts...)
	if err != nil {
		return "", err
	}
	return d.String()
}
