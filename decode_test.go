package denv

import (
	"errors"
	"iter"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairSeq yields pairs in the given order, for tests that care about it.
func pairSeq(kv ...[2]string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range kv {
			if !yield(p[0], p[1]) {
				return
			}
		}
	}
}

func decodeKind(t *testing.T, err error) Kind {
	t.Helper()
	var de *Error
	require.ErrorAs(t, err, &de)
	return de.Kind()
}

func TestDecodeBasic(t *testing.T) {
	type config struct {
		Name    string  `env:"NAME"`
		Port    uint16  `env:"PORT"`
		Ratio   float64 `env:"RATIO"`
		Debug   bool    `env:"DEBUG"`
		Retries int8    `env:"RETRIES"`
	}

	cfg, err := Decode[config](maps.All(map[string]string{
		"NAME":    "lorem ipsum",
		"PORT":    "8080",
		"RATIO":   "0.75",
		"DEBUG":   "on",
		"RETRIES": "-3",
	}))
	require.NoError(t, err)

	assert.Equal(t, "lorem ipsum", cfg.Name)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, 0.75, cfg.Ratio)
	assert.True(t, cfg.Debug)
	assert.Equal(t, int8(-3), cfg.Retries)
}

func TestDecodeMissingField(t *testing.T) {
	type config struct {
		A string `env:"A"`
		B uint8  `env:"B"`
	}

	_, err := Decode[config](pairSeq([2]string{"A", "present"}))
	require.Error(t, err)
	assert.Equal(t, KindCustom, decodeKind(t, err))
	assert.Contains(t, err.Error(), `missing field "B"`)
}

func TestDecodeOptionalFields(t *testing.T) {
	type config struct {
		A *uint8 `env:"a"`
		B *uint8 `env:"b"`
	}

	cfg, err := Decode[config](pairSeq([2]string{"a", "12"}))
	require.NoError(t, err)

	require.NotNil(t, cfg.A)
	assert.Equal(t, uint8(12), *cfg.A)
	assert.Nil(t, cfg.B)
}

// An empty string is still a present value; only a missing key makes a
// pointer field nil.
func TestDecodeOptionalEmptyStringIsPresent(t *testing.T) {
	type config struct {
		A *string `env:"a"`
	}

	cfg, err := Decode[config](pairSeq([2]string{"a", ""}))
	require.NoError(t, err)
	require.NotNil(t, cfg.A)
	assert.Equal(t, "", *cfg.A)
}

func TestDecodeDefaults(t *testing.T) {
	type config struct {
		Host  string `env:"HOST" default:"localhost"`
		Port  uint16 `env:"PORT" default:"5432"`
		Debug bool   `env:"DEBUG" default:"off"`
	}

	cfg, err := Decode[config](pairSeq([2]string{"PORT", "9090"}))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, uint16(9090), cfg.Port)
	assert.False(t, cfg.Debug)
}

func TestDecodeBadDefault(t *testing.T) {
	type config struct {
		Port uint16 `env:"PORT" default:"not-a-port"`
	}

	_, err := Decode[config](pairSeq())
	require.Error(t, err)
	assert.Equal(t, KindInvalidInteger, decodeKind(t, err))
	assert.Contains(t, err.Error(), "field PORT")
}

func TestDecodeDenyUnknown(t *testing.T) {
	type config struct {
		A uint8 `env:"a"`
		B uint8 `env:"b"`
	}

	pairs := pairSeq(
		[2]string{"a", "12"},
		[2]string{"b", "34"},
		[2]string{"c", "56"},
	)

	_, err := Decode[config](pairs, WithDenyUnknown())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "c"`)

	cfg, err := Decode[config](pairs)
	require.NoError(t, err)
	assert.Equal(t, uint8(12), cfg.A)
	assert.Equal(t, uint8(34), cfg.B)
}

func TestDecodeDuplicateKey(t *testing.T) {
	type config struct {
		A string `env:"a"`
	}

	_, err := Decode[config](pairSeq(
		[2]string{"a", "first"},
		[2]string{"a", "second"},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate field "a"`)
}

func TestDecodeSkippedField(t *testing.T) {
	type config struct {
		Kept    string `env:"KEPT"`
		Ignored string `env:"-"`
	}

	cfg, err := Decode[config](pairSeq([2]string{"KEPT", "yes"}))
	require.NoError(t, err)
	assert.Equal(t, "yes", cfg.Kept)
	assert.Equal(t, "", cfg.Ignored)
}

func TestDecodeKeyFunc(t *testing.T) {
	type config struct {
		Host string
		Port uint16
	}

	cfg, err := Decode[config](pairSeq(
		[2]string{"HOST", "db.internal"},
		[2]string{"PORT", "5432"},
	), WithKeyFunc(strings.ToUpper))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, uint16(5432), cfg.Port)
}

func TestDecodeIdempotent(t *testing.T) {
	type config struct {
		Name  string `env:"NAME"`
		Count int    `env:"COUNT"`
		Maybe *bool  `env:"MAYBE"`
	}

	input := map[string]string{"NAME": "twice", "COUNT": "2"}

	first, err := Decode[config](maps.All(input))
	require.NoError(t, err)
	second, err := Decode[config](maps.All(input))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeMapTarget(t *testing.T) {
	got, err := Decode[map[string]int](maps.All(map[string]string{
		"a": "1",
		"b": "2",
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, got)

	_, err = Decode[map[string]int](pairSeq([2]string{"a", "nope"}))
	require.Error(t, err)
	assert.Equal(t, KindInvalidInteger, decodeKind(t, err))

	_, err = Decode[map[int]string](pairSeq([2]string{"1", "x"}))
	require.Error(t, err)
	assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
}

func TestDecodeUnsupportedTopLevel(t *testing.T) {
	for _, tc := range []struct {
		name string
		run  func() error
	}{
		{"int", func() error { _, err := Decode[int](pairSeq()); return err }},
		{"slice", func() error { _, err := Decode[[]string](pairSeq()); return err }},
		{"string", func() error { _, err := Decode[string](pairSeq()); return err }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
		})
	}
}

func TestDecodeUnsupportedFieldShapes(t *testing.T) {
	pairs := pairSeq([2]string{"X", "value"})

	type nested struct {
		A string
		B string
	}

	t.Run("slice", func(t *testing.T) {
		type config struct {
			X []string `env:"X"`
		}
		_, err := Decode[config](pairs)
		assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
	})

	t.Run("map", func(t *testing.T) {
		type config struct {
			X map[string]string `env:"X"`
		}
		_, err := Decode[config](pairs)
		assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
	})

	t.Run("array", func(t *testing.T) {
		type config struct {
			X [4]byte `env:"X"`
		}
		_, err := Decode[config](pairs)
		assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
	})

	t.Run("nested struct", func(t *testing.T) {
		type config struct {
			X nested `env:"X"`
		}
		_, err := Decode[config](pairs)
		assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
		assert.Contains(t, err.Error(), "struct cannot be decoded")
	})

	t.Run("chan", func(t *testing.T) {
		type config struct {
			X chan int `env:"X"`
		}
		_, err := Decode[config](pairs)
		assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
	})

	t.Run("complex", func(t *testing.T) {
		type config struct {
			X complex128 `env:"X"`
		}
		_, err := Decode[config](pairs)
		assert.Equal(t, KindUnsupportedShape, decodeKind(t, err))
	})
}

func TestDecodeIntoRejectsBadTarget(t *testing.T) {
	err := DecodeInto(pairSeq(), nil)
	require.Error(t, err)

	var cfg struct{}
	err = DecodeInto(pairSeq(), cfg)
	require.Error(t, err)

	var m map[string]string
	err = DecodeInto(pairSeq([2]string{"a", "b"}), &m)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "b"}, m)
}

func TestDecodeInvalidUnicodeKey(t *testing.T) {
	type config struct {
		A *string `env:"a"`
	}

	_, err := Decode[config](pairSeq([2]string{"\xff\xfe", "value"}))
	require.Error(t, err)
	assert.Equal(t, KindInvalidUnicode, decodeKind(t, err))
}

func TestDecodeErrorCarriesFieldContext(t *testing.T) {
	type config struct {
		Port uint16 `env:"PORT"`
	}

	_, err := Decode[config](pairSeq([2]string{"PORT", "70000"}))
	require.Error(t, err)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PORT", de.Field())
	assert.True(t, strings.HasPrefix(err.Error(), "field PORT: "), err.Error())
	assert.True(t, errors.Is(err, de))
}
