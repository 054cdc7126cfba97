// Package env loads typed configuration values from environment variables.
package env

import (
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	// ErrNotSet is returned when a required environment variable is not set
	ErrNotSet = fmt.Errorf("env: variable not set")
	// ErrParseFailed is returned when parsing an environment variable fails
	ErrParseFailed = fmt.Errorf("env: parse failed")
)

// Parseable defines the types that can be parsed from environment variables
type Parseable interface {
	~string | ~bool | ~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Parse converts a string to the specified type T.
func Parse[T Parseable](str string) (T, error) {
	var v T

	// Sscanf stops at whitespace, so strings are taken verbatim.
	if s, ok := any(&v).(*string); ok {
		*s = str
		return v, nil
	}

	if _, err := fmt.Sscanf(str, "%v", &v); err != nil {
		return v, fmt.Errorf("%w: %s", ErrParseFailed, err)
	}

	return v, nil
}

// Load reads an environment variable and parses it to type T.
func Load[T Parseable](name string) (T, error) {
	var zero T
	s, err := lookupEnv(name)
	if err != nil {
		return zero, err
	}

	v, err := Parse[T](strings.TrimSpace(s))
	if err != nil {
		return zero, fmt.Errorf("%w: variable %s", err, name)
	}

	return v, nil
}

// LoadOr returns the default value if the variable is not set or cannot be
// parsed.
func LoadOr[T Parseable](name string, defaultValue T) T {
	v, err := Load[T](name)
	if err != nil {
		return defaultValue
	}

	return v
}

// LoadDuration reads an environment variable and parses it as a time.Duration.
func LoadDuration(name string) (time.Duration, error) {
	s, err := lookupEnv(name)
	if err != nil {
		return 0, err
	}

	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: variable %s: %s", ErrParseFailed, name, err)
	}

	return d, nil
}

func LoadDurationOr(name string, defaultValue time.Duration) time.Duration {
	d, err := LoadDuration(name)
	if err != nil {
		return defaultValue
	}

	return d
}

// Override replaces *dst with the parsed variable when it is set. A set but
// malformed variable is an error; an unset one leaves *dst untouched.
func Override[T Parseable](name string, dst *T) error {
	if !Exists(name) {
		return nil
	}

	v, err := Load[T](name)
	if err != nil {
		return err
	}

	*dst = v

	return nil
}

// OverrideDuration is Override for time.Duration.
func OverrideDuration(name string, dst *time.Duration) error {
	if !Exists(name) {
		return nil
	}

	d, err := LoadDuration(name)
	if err != nil {
		return err
	}

	*dst = d

	return nil
}

// Exists checks if an environment variable is set (even if empty).
func Exists(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// lookupEnv looks up an environment variable and returns an error if not set.
func lookupEnv(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotSet, name)
	}
	return v, nil
}
