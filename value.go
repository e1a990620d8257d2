package denv

import (
	"encoding"
	"errors"
	"reflect"
	"strings"
)

// Value wraps one raw variable value and coerces it into whatever shape
// the target field requests. Coercion never mutates the raw bytes; each
// attempt reads them and reports a typed result or a typed failure.
type Value struct {
	raw  string
	opts *options
}

// Text returns the value as UTF-8 text.
func (v Value) Text() (string, error) {
	return decodeText(v.raw)
}

// Bool coerces the value using the boolean token sets configured on the
// decode call.
func (v Value) Bool() (bool, error) {
	return parseBool(v.raw, v.opts.strictBool)
}

// decode dispatches on the shape of rv. rv must be an addressable,
// settable value; the assembler hands in struct fields and freshly
// allocated map elements.
func (v Value) decode(rv reflect.Value) error {
	t := rv.Type()

	// Registered parsers win over every built-in rule, so exact types like
	// time.Time or net.IP are never mistaken for their underlying shape.
	if fn, ok := lookupParser(t); ok {
		text, err := v.Text()
		if err != nil {
			return err
		}
		out, err := fn(text)
		if err != nil {
			var de *Error
			if errors.As(err, &de) {
				return de
			}
			return errCustom(err)
		}
		rv.Set(reflect.ValueOf(out))
		return nil
	}

	if e, ok := rv.Addr().Interface().(Enum); ok {
		return v.decodeEnum(e)
	}

	if u, ok := rv.Addr().Interface().(encoding.TextUnmarshaler); ok {
		text, err := v.Text()
		if err != nil {
			return err
		}
		if err := u.UnmarshalText([]byte(text)); err != nil {
			return errCustom(err)
		}
		return nil
	}

	switch t.Kind() {
	case reflect.String:
		text, err := v.Text()
		if err != nil {
			return err
		}
		rv.SetString(text)
		return nil
	case reflect.Bool:
		b, err := v.Bool()
		if err != nil {
			return err
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := parseSigned(v.raw, t.Bits())
		if err != nil {
			return err
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := parseUnsigned(v.raw, t.Bits())
		if err != nil {
			return err
		}
		rv.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := parseFloat(v.raw, t.Bits())
		if err != nil {
			return err
		}
		rv.SetFloat(f)
		return nil
	case reflect.Pointer:
		// Optional shape: a present value always decodes the inner value.
		// Absence is decided by the assembler, never by content.
		inner := reflect.New(t.Elem())
		if err := v.decode(inner.Elem()); err != nil {
			return err
		}
		rv.Set(inner)
		return nil
	case reflect.Struct:
		// A single-field wrapper is transparent: the wrapper's field
		// receives the same value, so validation logic sees the raw input.
		if t.NumField() == 0 {
			return errUnsupported("unit struct")
		}
		if t.NumField() == 1 && t.Field(0).IsExported() {
			return v.decode(rv.Field(0))
		}
		return errUnsupported("struct")
	default:
		return errUnsupported(t.Kind().String())
	}
}

func (v Value) decodeEnum(e Enum) error {
	text, err := v.Text()
	if err != nil {
		return err
	}
	variants := e.Variants()
	names := make([]string, len(variants))
	for i, va := range variants {
		names[i] = va.Name
		if va.Name != text {
			continue
		}
		if !va.Unit {
			return errUnsupported("non-unit variant " + va.Name)
		}
		if err := e.UnmarshalVariant(va.Name); err != nil {
			return errCustom(err)
		}
		return nil
	}
	return errCustomf("unknown variant %q, expected one of %s", text, strings.Join(names, ", "))
}
