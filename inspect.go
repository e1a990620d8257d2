package denv

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// mask keeps the first 3 characters of a secret visible and replaces the
// rest with asterisks. Secrets of 3 characters or fewer are fully masked.
func mask(secret string) string {
	const keep = 3
	n := len(secret)
	if n <= keep {
		return strings.Repeat("*", n)
	}
	return secret[:keep] + strings.Repeat("*", n-keep)
}

// PrettyString renders a configuration struct as indented JSON with
// `secret`-tagged fields masked and URL passwords redacted, safe for
// logging.
//
//	cfg, _ := denv.FromEnv[Config]()
//	log.Println(denv.PrettyString(cfg))
func PrettyString(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprintf("%T is not a struct", v)
	}
	b, err := json.MarshalIndent(safeMap(rv), "", "  ")
	if err != nil {
		return fmt.Sprintf("error rendering config: %v", err)
	}
	return string(b)
}

func safeMap(rv reflect.Value) map[string]any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)

		key := sf.Tag.Get("env")
		if key == "" {
			key = sf.Tag.Get("secret")
		}
		if key == "-" {
			continue
		}
		if key == "" {
			key = sf.Name
		}

		switch {
		case sf.Tag.Get("secret") != "":
			if s, ok := fv.Interface().(string); ok {
				out[key] = mask(s)
			} else {
				out[key] = "***"
			}
		case isURLType(fv.Type()):
			out[key] = maskURLPassword(fv.Interface())
		default:
			out[key] = fv.Interface()
		}
	}
	return out
}

func isURLType(t reflect.Type) bool {
	return t == reflect.TypeFor[url.URL]() || t == reflect.TypeFor[*url.URL]()
}

// maskURLPassword replaces the password component of a URL so connection
// strings can be logged.
func maskURLPassword(val any) any {
	var u *url.URL
	switch x := val.(type) {
	case url.URL:
		u = &x
	case *url.URL:
		if x == nil {
			return nil
		}
		u = x
	default:
		return val
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			masked := *u
			masked.User = url.UserPassword(u.User.Username(), "***")
			return masked.String()
		}
	}
	return u.String()
}

// FieldInfo describes one decodable field of a configuration struct.
type FieldInfo struct {
	Name       string // struct field name
	Key        string // variable name the field decodes from
	Type       string // Go type name
	Default    string // value of the `default` tag
	HasDefault bool
	Optional   bool // pointer field; absent key leaves it nil
	Secret     bool // masked by PrettyString
}

// Fields returns metadata about the decodable fields of a struct, in
// declaration order. Useful for generating configuration reference docs
// or validating deployment manifests.
func Fields(v any) []FieldInfo {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	plan, _ := structPlan(t, buildOptions(nil))
	infos := make([]FieldInfo, len(plan))
	for i, fp := range plan {
		sf := t.Field(fp.index)
		infos[i] = FieldInfo{
			Name:       sf.Name,
			Key:        fp.name,
			Type:       sf.Type.String(),
			Default:    fp.def,
			HasDefault: fp.hasDef,
			Optional:   sf.Type.Kind() == reflect.Pointer,
			Secret:     fp.secret,
		}
	}
	return infos
}
