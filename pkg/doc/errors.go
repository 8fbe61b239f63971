package doc

import "fmt"

// UnsupportedValueError reports a value that no encoder can serialize:
// a nil Value, a Lazy closure returning nil, or a Raw wrapping a Go kind
// the active encoding cannot represent.
type UnsupportedValueError struct {
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported value of type %T", e.Value)
}

// UnsupportedEncodingError reports a request for an encoding outside the
// supported set. Name is set when the request came in by name.
type UnsupportedEncodingError struct {
	Encoding Encoding
	Name     string
}

func (e *UnsupportedEncodingError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unsupported encoding %q", e.Name)
	}
	return fmt.Sprintf("unsupported encoding %d", int(e.Encoding))
}

// CompileError wraps an error raised while evaluating a block tree. Path
// is the dotted field path of the failing node. The whole compile attempt
// is failed; no partial output is valid.
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("compile: %s", e.Err)
	}
	return fmt.Sprintf("compile %s: %s", e.Path, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// EncodeError reports a failure while serializing or flushing an already
// evaluated tree.
type EncodeError struct {
	Encoding Encoding
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %s", e.Encoding, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// BinaryEncodingError reports an attempt to render a binary-only encoding
// as text.
type BinaryEncodingError struct {
	Encoding Encoding
}

func (e *BinaryEncodingError) Error() string {
	return fmt.Sprintf("encoding %s is binary-only and cannot be rendered as text", e.Encoding)
}
