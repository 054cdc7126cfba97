package env_test

import (
	"testing"
	"time"

	"github.com/alextanhongpin/correlation/types/env"
	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	is := assert.New(t)

	t.Setenv("ENV_INT", " 42 ")
	t.Setenv("ENV_BOOL", "true")
	t.Setenv("ENV_STRING", "hello world")
	t.Setenv("ENV_BAD", "forty-two")

	n, err := env.Load[int]("ENV_INT")
	is.NoError(err)
	is.Equal(42, n)

	b, err := env.Load[bool]("ENV_BOOL")
	is.NoError(err)
	is.True(b)

	s, err := env.Load[string]("ENV_STRING")
	is.NoError(err)
	is.Equal("hello world", s)

	_, err = env.Load[int]("ENV_BAD")
	is.ErrorIs(err, env.ErrParseFailed)

	_, err = env.Load[int]("ENV_MISSING")
	is.ErrorIs(err, env.ErrNotSet)

	is.Equal(7, env.LoadOr("ENV_MISSING", 7))
	is.Equal(42, env.LoadOr("ENV_INT", 7))
}

func TestLoadDuration(t *testing.T) {
	is := assert.New(t)

	t.Setenv("ENV_DURATION", "150ms")
	t.Setenv("ENV_BAD_DURATION", "150")

	d, err := env.LoadDuration("ENV_DURATION")
	is.NoError(err)
	is.Equal(150*time.Millisecond, d)

	_, err = env.LoadDuration("ENV_BAD_DURATION")
	is.ErrorIs(err, env.ErrParseFailed)

	is.Equal(time.Second, env.LoadDurationOr("ENV_MISSING", time.Second))
}

func TestOverride(t *testing.T) {
	t.Run("unset keeps value", func(t *testing.T) {
		is := assert.New(t)

		n := 1
		is.NoError(env.Override("ENV_MISSING", &n))
		is.Equal(1, n)

		d := time.Second
		is.NoError(env.OverrideDuration("ENV_MISSING", &d))
		is.Equal(time.Second, d)
	})

	t.Run("set replaces value", func(t *testing.T) {
		is := assert.New(t)

		t.Setenv("ENV_INT", "2")
		t.Setenv("ENV_DURATION", "2s")

		n := 1
		is.NoError(env.Override("ENV_INT", &n))
		is.Equal(2, n)

		d := time.Second
		is.NoError(env.OverrideDuration("ENV_DURATION", &d))
		is.Equal(2*time.Second, d)
	})

	t.Run("malformed is an error", func(t *testing.T) {
		is := assert.New(t)

		t.Setenv("ENV_INT", "two")
		t.Setenv("ENV_DURATION", "two seconds")

		n := 1
		is.ErrorIs(env.Override("ENV_INT", &n), env.ErrParseFailed)
		is.Equal(1, n)

		d := time.Second
		is.ErrorIs(env.OverrideDuration("ENV_DURATION", &d), env.ErrParseFailed)
	})
}
