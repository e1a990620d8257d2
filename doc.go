// Package denv decodes flat name/value pairs, environment variables or
// any equivalent source, into strongly-typed Go structs, without
// per-field parsing code.
//
// The decoder makes a single pass over the input pairs. Each name is
// resolved against the target struct's fields, each value is coerced into
// the shape the field requests, and the first failure anywhere aborts the
// whole conversion with a typed error.
//
// # Struct Tags
//
//   - `env:"VAR_NAME"` - maps a field to a variable name
//   - `secret:"VAR_NAME"` - same mapping, but PrettyString masks the value
//   - `default:"value"` - decoded through the same coercion rules when the
//     variable is absent
//   - `env:"-"` - field is never decoded
//
// Fields without a tag decode from the Go field name (configurable with
// WithKeyFunc). Pointer fields are optional: an absent variable leaves
// them nil, while every other absent field is an error. Whether a value is
// present is decided solely by the key; there is no "empty string means
// unset" rule.
//
// # Supported Types
//
//   - string, bool, all int/uint and float sizes
//   - booleans accept true/t/yes/y/on/1 and false/f/no/n/off/0 in any
//     casing (WithStrictBool limits this to true/false)
//   - single-field wrapper structs, decoded transparently
//   - unit enumerations via the Enum interface
//   - any type implementing encoding.TextUnmarshaler
//   - registered parsers: time.Duration, time.Time, url.URL, net.IP,
//     mail.Address, slog.Level, big.Int, decimal.Decimal,
//     resource.Quantity, *vm.Program (expr-lang/expr), RSA and ECDSA
//     private keys from PEM, and denv.Char
//
// Nested structs, slices, maps and arrays as field values are deliberately
// unsupported and fail with a typed "unsupported shape" error.
//
// # Quick Start
//
//	type Config struct {
//		Port    uint16        `env:"PORT" default:"8080"`
//		Debug   bool          `env:"DEBUG" default:"off"`
//		Timeout time.Duration `env:"TIMEOUT" default:"30s"`
//		APIKey  string        `secret:"API_KEY"`
//		Region  *string       `env:"REGION"`
//	}
//
//	cfg, err := denv.FromEnv[Config]()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(denv.PrettyString(cfg)) // secrets are masked
//
// Use FromEnvPrefixed to decode only variables carrying a common prefix,
// FromDotenv to layer .env files under the real environment, or Decode to
// supply pairs from any source.
package denv
