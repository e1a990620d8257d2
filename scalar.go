package denv

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeText interprets raw bytes as UTF-8 text. Every coercion that needs
// the value as text goes through here first.
func decodeText(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", errUnicode(raw)
	}
	return raw, nil
}

func parseSigned(raw string, bits int) (int64, error) {
	text, err := decodeText(raw)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(text, 10, bits)
	if err != nil {
		return 0, &Error{kind: KindInvalidInteger, err: err}
	}
	return n, nil
}

func parseUnsigned(raw string, bits int) (uint64, error) {
	text, err := decodeText(raw)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(text, 10, bits)
	if err != nil {
		return 0, &Error{kind: KindInvalidInteger, err: err}
	}
	return n, nil
}

func parseFloat(raw string, bits int) (float64, error) {
	text, err := decodeText(raw)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(text, bits)
	if err != nil {
		return 0, &Error{kind: KindInvalidFloat, err: err}
	}
	return f, nil
}

// parseBool matches the lowercased value against the recognized boolean
// tokens. With the extended set (the default) truthy/falsy aliases are
// accepted; strict mode admits only the literals. Input that is not valid
// unicode can match no token and reports the raw value as a bad boolean,
// not as a unicode failure.
func parseBool(raw string, strict bool) (bool, error) {
	lower := strings.ToLower(raw)
	switch lower {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if !strict {
		switch lower {
		case "t", "yes", "y", "on", "1":
			return true, nil
		case "f", "no", "n", "off", "0":
			return false, nil
		}
	}
	return false, errBoolean(raw)
}

// Char is a value that must consist of exactly one character.
//
//	type Config struct {
//		Separator denv.Char `env:"SEPARATOR"`
//	}
type Char rune

func parseChar(raw string) (Char, error) {
	text, err := decodeText(raw)
	if err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(text) != 1 {
		return 0, errCustomf("invalid value %q, expected a single character", text)
	}
	r, _ := utf8.DecodeRuneInString(text)
	return Char(r), nil
}
