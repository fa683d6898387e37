package env_test

import (
	"testing"
	"time"

	"github.com/patternkit/multicsv/pkg/env"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
)

const (
	envKey    = "THE_ENV_KEY"
	othEnvKey = "OTH_ENV_KEY"
)

func TestLoad(t *testing.T) {
	t.Run("on nil value", func(t *testing.T) {
		type Example struct{}
		assert.ErrorIs(t, env.ErrLoadInvalidData, env.Load[Example](nil))
	})

	t.Run("on non-struct type", func(t *testing.T) {
		var c string
		assert.ErrorIs(t, env.ErrLoadInvalidData, env.Load(&c))
	})

	t.Run("struct fields without env tag are ignored", func(t *testing.T) {
		type Example struct{ V string }
		var c Example
		assert.NoError(t, env.Load(&c))
		assert.Empty(t, c.V)
	})

	t.Run("string struct field", func(t *testing.T) {
		type Example struct {
			V string `env:"THE_ENV_KEY"`
		}
		t.Run("os env has the value", func(t *testing.T) {
			testcase.SetEnv(t, envKey, "42")
			var c Example
			assert.NoError(t, env.Load(&c))
			assert.Equal(t, "42", c.V)
		})
		t.Run("os env doesn't have the value", func(t *testing.T) {
			testcase.UnsetEnv(t, envKey)
			var c Example
			assert.NoError(t, env.Load(&c))
			assert.Empty(t, c.V)
		})
	})

	t.Run("default value is used when the variable is absent", func(t *testing.T) {
		type Example struct {
			V int `env:"THE_ENV_KEY" default:"7"`
		}
		testcase.UnsetEnv(t, envKey)
		var c Example
		assert.NoError(t, env.Load(&c))
		assert.Equal(t, 7, c.V)
	})

	t.Run("required value is missing", func(t *testing.T) {
		type Example struct {
			V string `env:"THE_ENV_KEY" required:"true"`
		}
		testcase.UnsetEnv(t, envKey)
		var c Example
		assert.ErrorIs(t, env.ErrMissing, env.Load(&c))
	})

	t.Run("typed values are parsed", func(t *testing.T) {
		type Example struct {
			B bool          `env:"THE_ENV_KEY"`
			D time.Duration `env:"OTH_ENV_KEY"`
		}
		testcase.SetEnv(t, envKey, "true")
		testcase.SetEnv(t, othEnvKey, "1m30s")
		var c Example
		assert.NoError(t, env.Load(&c))
		assert.True(t, c.B)
		assert.Equal(t, 90*time.Second, c.D)
	})

	t.Run("malformed value yields an error", func(t *testing.T) {
		type Example struct {
			V int `env:"THE_ENV_KEY"`
		}
		testcase.SetEnv(t, envKey, "forty-two")
		var c Example
		assert.Error(t, env.Load(&c))
	})

	t.Run("list values honour the separator", func(t *testing.T) {
		type Example struct {
			Comma []string `env:"THE_ENV_KEY"`
			Semi  []string `env:"OTH_ENV_KEY" separator:";"`
		}
		testcase.SetEnv(t, envKey, "a, b,c")
		testcase.SetEnv(t, othEnvKey, "*.csv;*.csv.gz")
		var c Example
		assert.NoError(t, env.Load(&c))
		assert.Equal(t, []string{"a", "b", "c"}, c.Comma)
		assert.Equal(t, []string{"*.csv", "*.csv.gz"}, c.Semi)
	})

	t.Run("nested structs are visited", func(t *testing.T) {
		type Inner struct {
			V string `env:"THE_ENV_KEY"`
		}
		type Example struct{ Inner Inner }
		testcase.SetEnv(t, envKey, "nested")
		var c Example
		assert.NoError(t, env.Load(&c))
		assert.Equal(t, "nested", c.Inner.V)
	})
}

func TestLookup(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		testcase.SetEnv(t, envKey, "3")
		v, ok, err := env.Lookup[int](envKey)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, v)
	})
	t.Run("absent with default", func(t *testing.T) {
		testcase.UnsetEnv(t, envKey)
		v, ok, err := env.Lookup[string](envKey, env.DefaultValue("column"))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "column", v)
	})
	t.Run("absent and required", func(t *testing.T) {
		testcase.UnsetEnv(t, envKey)
		_, ok, err := env.Lookup[string](envKey, env.Required())
		assert.ErrorIs(t, env.ErrMissing, err)
		assert.False(t, ok)
	})
	t.Run("list with custom separator", func(t *testing.T) {
		testcase.SetEnv(t, envKey, "a|b")
		v, ok, err := env.Lookup[[]string](envKey, env.ListSeparator("|"))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, v)
	})
}
