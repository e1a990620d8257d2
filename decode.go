package denv

import (
	"iter"
	"reflect"
	"strings"
)

type options struct {
	strictBool  bool
	denyUnknown bool
	keyFunc     func(string) string
}

// Option configures a single decode call.
type Option func(*options)

// WithStrictBool restricts boolean coercion to the literals "true" and
// "false" (case-insensitive), disabling the extended truthy/falsy tokens.
func WithStrictBool() Option {
	return func(o *options) { o.strictBool = true }
}

// WithDenyUnknown makes the decode fail on input names that match no
// field. The default is to skip them.
func WithDenyUnknown() Option {
	return func(o *options) { o.denyUnknown = true }
}

// WithKeyFunc sets the naming convention applied to fields without an
// `env` or `secret` tag. The default uses the Go field name unchanged.
func WithKeyFunc(fn func(fieldName string) string) Option {
	return func(o *options) { o.keyFunc = fn }
}

func buildOptions(opts []Option) *options {
	o := &options{keyFunc: func(name string) string { return name }}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Decode builds a T from a sequence of name/value pairs. T must be a
// struct or a string-keyed map; every other target shape is rejected.
//
// The pairs are consumed in a single pass. The first failure anywhere in
// the assembly aborts the whole conversion; no partial result is returned.
func Decode[T any](pairs iter.Seq2[string, string], opts ...Option) (T, error) {
	var out T
	err := DecodeInto(pairs, &out, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// DecodeInto is the non-generic form of Decode. target must be a non-nil
// pointer to a struct or a string-keyed map.
func DecodeInto(pairs iter.Seq2[string, string], target any, opts ...Option) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errCustomf("target must be a non-nil pointer, got %T", target)
	}
	o := buildOptions(opts)
	elem := rv.Elem()
	switch elem.Kind() {
	case reflect.Struct:
		return decodeStruct(pairs, elem, o)
	case reflect.Map:
		return decodeMap(pairs, elem, o)
	default:
		return errUnsupported("top-level " + elem.Kind().String())
	}
}

// fieldPlan is the per-field slice the assembler and Fields share.
type fieldPlan struct {
	index  int
	name   string
	def    string
	hasDef bool
	secret bool
	seen   bool
}

// structPlan derives the decodable fields of a struct type: tag `env`
// (then `secret`) names the key, "-" skips the field, otherwise the key
// function of the Go field name applies.
func structPlan(t reflect.Type, o *options) ([]fieldPlan, map[string]int) {
	plan := make([]fieldPlan, 0, t.NumField())
	index := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("env")
		secret := sf.Tag.Get("secret") != ""
		if name == "" {
			name = sf.Tag.Get("secret")
		}
		if name == "-" {
			continue
		}
		if name == "" {
			name = o.keyFunc(sf.Name)
		}
		def, hasDef := sf.Tag.Lookup("default")
		index[name] = len(plan)
		plan = append(plan, fieldPlan{
			index:  i,
			name:   name,
			def:    def,
			hasDef: hasDef,
			secret: secret,
		})
	}
	return plan, index
}

func planNames(plan []fieldPlan) []string {
	names := make([]string, len(plan))
	for i := range plan {
		names[i] = plan[i].name
	}
	return names
}

func decodeStruct(pairs iter.Seq2[string, string], rv reflect.Value, o *options) error {
	plan, index := structPlan(rv.Type(), o)

	var firstErr error
	for name, raw := range pairs {
		id, err := (Key{raw: name}).Identifier()
		if err != nil {
			firstErr = err
			break
		}
		i, ok := index[id]
		if !ok {
			if o.denyUnknown {
				firstErr = errCustomf("unknown field %q, expected one of %s",
					id, strings.Join(planNames(plan), ", "))
				break
			}
			continue
		}
		fp := &plan[i]
		if fp.seen {
			firstErr = errCustomf("duplicate field %q", id)
			break
		}
		fp.seen = true
		if err := (Value{raw: raw, opts: o}).decode(rv.Field(fp.index)); err != nil {
			firstErr = withField(err, id)
			break
		}
	}
	if firstErr != nil {
		return firstErr
	}

	// Completion phase: defaults fill in for absent keys, absent pointer
	// fields stay nil, anything else still unseen is missing.
	for i := range plan {
		fp := &plan[i]
		if fp.seen {
			continue
		}
		if fp.hasDef {
			if err := (Value{raw: fp.def, opts: o}).decode(rv.Field(fp.index)); err != nil {
				return withField(err, fp.name)
			}
			continue
		}
		if rv.Field(fp.index).Kind() == reflect.Pointer {
			continue
		}
		return errCustomf("missing field %q", fp.name)
	}
	return nil
}

func decodeMap(pairs iter.Seq2[string, string], rv reflect.Value, o *options) error {
	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return errUnsupported("map keyed by " + t.Key().String())
	}
	m := reflect.MakeMap(t)
	var firstErr error
	for name, raw := range pairs {
		id, err := (Key{raw: name}).Identifier()
		if err != nil {
			firstErr = err
			break
		}
		ev := reflect.New(t.Elem()).Elem()
		if err := (Value{raw: raw, opts: o}).decode(ev); err != nil {
			firstErr = withField(err, id)
			break
		}
		m.SetMapIndex(reflect.ValueOf(id).Convert(t.Key()), ev)
	}
	if firstErr != nil {
		return firstErr
	}
	rv.Set(m)
	return nil
}
