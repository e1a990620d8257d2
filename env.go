package denv

import (
	"iter"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// FromEnv decodes a T from the environment variables of the current
// process.
//
//	type Config struct {
//		Timeout uint16 `env:"TIMEOUT"`
//		Host    string `env:"HOST"`
//	}
//
//	cfg, err := denv.FromEnv[Config]()
func FromEnv[T any](opts ...Option) (T, error) {
	return Decode[T](environ(""), opts...)
}

// FromEnvPrefixed decodes a T from the environment variables whose names
// carry the given prefix. The prefix is stripped before the name reaches
// the decoder; variables without it are silently excluded.
func FromEnvPrefixed[T any](prefix string, opts ...Option) (T, error) {
	return Decode[T](environ(prefix), opts...)
}

// FromDotenv loads the given .env files (default ".env" in the current
// directory) and then decodes a T from the environment. Variables already
// set in the environment win over file contents, and missing files are
// ignored, so a production deployment can run without any .env at all.
func FromDotenv[T any](paths ...string) (T, error) {
	_ = godotenv.Load(paths...)
	return FromEnv[T]()
}

// environ yields the process environment as name/value pairs, optionally
// filtered down to names with the given prefix.
func environ(prefix string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, kv := range os.Environ() {
			name, value, ok := strings.Cut(kv, "=")
			if !ok || name == "" {
				continue
			}
			if prefix != "" {
				stripped, found := strings.CutPrefix(name, prefix)
				if !found {
					continue
				}
				name = stripped
			}
			if !yield(name, value) {
				return
			}
		}
	}
}
