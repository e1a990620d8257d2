package denv

import (
	"fmt"
	"strings"
)

// Kind discriminates the failure reasons a decode can surface.
type Kind int

const (
	// KindCustom covers validation failures raised by the target type itself:
	// TextUnmarshaler errors, unknown or missing fields, unknown enum variants.
	KindCustom Kind = iota
	// KindUnsupportedShape is returned when a field requests a shape the
	// engine never supports (nested struct, slice, map, array, ...).
	KindUnsupportedShape
	// KindInvalidUnicode is returned when a name or value must be read as
	// text but is not valid UTF-8.
	KindInvalidUnicode
	// KindInvalidInteger and KindInvalidFloat wrap the strconv diagnostic of
	// a failed numeric parse.
	KindInvalidInteger
	KindInvalidFloat
	// KindInvalidBoolean is returned when a value matches no boolean token.
	KindInvalidBoolean
)

func (k Kind) String() string {
	switch k {
	case KindCustom:
		return "custom"
	case KindUnsupportedShape:
		return "unsupported shape"
	case KindInvalidUnicode:
		return "invalid unicode"
	case KindInvalidInteger:
		return "invalid integer"
	case KindInvalidFloat:
		return "invalid float"
	case KindInvalidBoolean:
		return "invalid boolean"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type returned by every decoding entry point.
// Inspect the failure reason with Kind and match it with errors.As.
type Error struct {
	kind  Kind
	shape string // requested shape, set for KindUnsupportedShape
	raw   string // offending raw input, set for unicode and boolean kinds
	field string // field or key context, set by the assembler when known
	msg   string // message for KindCustom
	err   error  // underlying parse error for numeric and custom kinds
}

// Kind reports the failure reason.
func (e *Error) Kind() Kind { return e.kind }

// Field reports the field or key the failure belongs to, if known.
func (e *Error) Field() string { return e.field }

// Raw reports the offending raw input for unicode and boolean failures,
// decoded lossily.
func (e *Error) Raw() string { return lossy(e.raw) }

func (e *Error) Error() string {
	var b strings.Builder
	if e.field != "" {
		fmt.Fprintf(&b, "field %s: ", e.field)
	}
	switch e.kind {
	case KindUnsupportedShape:
		fmt.Fprintf(&b, "%s cannot be decoded from environment variables", e.shape)
	case KindInvalidUnicode:
		fmt.Fprintf(&b, "%q could not be decoded as it is not valid unicode", lossy(e.raw))
	case KindInvalidInteger, KindInvalidFloat:
		b.WriteString(e.err.Error())
	case KindInvalidBoolean:
		fmt.Fprintf(&b, "%q is not a boolean", lossy(e.raw))
	default:
		b.WriteString(e.msg)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.err }

// lossy replaces invalid byte sequences so raw input is always printable.
func lossy(s string) string {
	return strings.ToValidUTF8(s, "�")
}

func errCustomf(format string, args ...any) *Error {
	return &Error{kind: KindCustom, msg: fmt.Sprintf(format, args...)}
}

// errCustom wraps an error raised by the target type's own validation.
func errCustom(err error) *Error {
	return &Error{kind: KindCustom, msg: err.Error(), err: err}
}

func errUnsupported(shape string) *Error {
	return &Error{kind: KindUnsupportedShape, shape: shape}
}

func errUnicode(raw string) *Error {
	return &Error{kind: KindInvalidUnicode, raw: raw}
}

func errBoolean(raw string) *Error {
	return &Error{kind: KindInvalidBoolean, raw: raw}
}

// withField attaches the key context to an engine error without changing
// its kind. Errors are otherwise propagated unmodified.
func withField(err error, field string) error {
	if de, ok := err.(*Error); ok && de.field == "" {
		de.field = field
	}
	return err
}
