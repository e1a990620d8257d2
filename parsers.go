package denv

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"
	"k8s.io/apimachinery/pkg/api/resource"
)

// ParserFunc parses one raw text value into a fully-built value of the
// registered type.
type ParserFunc func(raw string) (any, error)

var customParsers = make(map[reflect.Type]ParserFunc)

// RegisterParser plugs in a parser for an exact type. Registered parsers
// take precedence over every built-in coercion rule, including
// encoding.TextUnmarshaler. Call it from init or main before decoding;
// the registry is not safe for concurrent mutation.
func RegisterParser(t reflect.Type, fn ParserFunc) {
	customParsers[t] = fn
}

func lookupParser(t reflect.Type) (ParserFunc, bool) {
	fn, ok := customParsers[t]
	return fn, ok
}

// registerScalar registers value and pointer forms of a parse function.
func registerScalar[T any](parse func(raw string) (T, error)) {
	RegisterParser(reflect.TypeFor[T](), func(raw string) (any, error) {
		v, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	RegisterParser(reflect.TypeFor[*T](), func(raw string) (any, error) {
		v, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}

func init() {
	registerScalar(parseChar)
	registerScalar(time.ParseDuration)
	registerScalar(parseTime)
	registerScalar(parseURL)
	registerScalar(parseIP)
	registerScalar(parseMailAddress)
	registerScalar(parseLevel)
	registerScalar(parseBigInt)
	registerScalar(decimal.NewFromString)
	registerScalar(resource.ParseQuantity)
	registerScalar(parseRSAKey)
	registerScalar(parseECDSAKey)

	// Compiled expressions only make sense behind a pointer.
	RegisterParser(reflect.TypeFor[*vm.Program](), func(raw string) (any, error) {
		program, err := expr.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression %q: %w", raw, err)
		}
		return program, nil
	})
}

func parseURL(raw string) (url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	return *u, nil
}

// parseTime accepts RFC3339 timestamps or Unix seconds.
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: must be RFC3339 format or Unix seconds", raw)
}

func parseIP(raw string) (net.IP, error) {
	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address %q", raw)
	}
	return ip, nil
}

func parseMailAddress(raw string) (mail.Address, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return mail.Address{}, fmt.Errorf("invalid email address %q: %w", raw, err)
	}
	return *addr, nil
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	if level, err := strconv.Atoi(raw); err == nil {
		return slog.Level(level), nil
	}
	return 0, fmt.Errorf("invalid slog level %q: must be debug|info|warn|error or integer", raw)
}

func parseBigInt(raw string) (big.Int, error) {
	bi := new(big.Int)
	if _, ok := bi.SetString(raw, 10); !ok {
		return big.Int{}, fmt.Errorf("invalid big.Int %q: must be base-10 integer", raw)
	}
	return *bi, nil
}

// parseRSAKey reads an RSA private key from PEM, accepting both PKCS#1
// and PKCS#8 blocks.
func parseRSAKey(raw string) (rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return rsa.PrivateKey{}, errors.New("invalid PEM format for RSA private key")
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return rsa.PrivateKey{}, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		return *key, nil
	case "PRIVATE KEY":
		keyInterface, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return rsa.PrivateKey{}, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		key, ok := keyInterface.(*rsa.PrivateKey)
		if !ok {
			return rsa.PrivateKey{}, errors.New("PKCS#8 key is not an RSA private key")
		}
		return *key, nil
	default:
		return rsa.PrivateKey{}, fmt.Errorf("unsupported PEM block type for RSA private key: %s", block.Type)
	}
}

// parseECDSAKey reads an ECDSA private key from PEM, accepting both SEC 1
// and PKCS#8 blocks.
func parseECDSAKey(raw string) (ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return ecdsa.PrivateKey{}, errors.New("invalid PEM format for ECDSA private key")
	}
	switch block.Type {
	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return ecdsa.PrivateKey{}, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		return *key, nil
	case "PRIVATE KEY":
		keyInterface, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return ecdsa.PrivateKey{}, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		key, ok := keyInterface.(*ecdsa.PrivateKey)
		if !ok {
			return ecdsa.PrivateKey{}, errors.New("PKCS#8 key is not an ECDSA private key")
		}
		return *key, nil
	default:
		return ecdsa.PrivateKey{}, fmt.Errorf("unsupported PEM block type for ECDSA private key: %s", block.Type)
	}
}
