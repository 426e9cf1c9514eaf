package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "fallback", String("ENV_TEST_UNSET", "fallback"))

	t.Setenv("ENV_TEST_STRING", "value")
	assert.Equal(t, "value", String("ENV_TEST_STRING", "fallback"))
}

func TestInt(t *testing.T) {
	assert.Equal(t, 42, Int("ENV_TEST_UNSET", 42))

	t.Setenv("ENV_TEST_INT", "7")
	assert.Equal(t, 7, Int("ENV_TEST_INT", 42))

	t.Setenv("ENV_TEST_INT", "not-a-number")
	assert.Equal(t, 42, Int("ENV_TEST_INT", 42))

	t.Setenv("ENV_TEST_INT", "-1")
	assert.Equal(t, 42, Int("ENV_TEST_INT", 42))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool("ENV_TEST_UNSET", true))

	t.Setenv("ENV_TEST_BOOL", "false")
	assert.False(t, Bool("ENV_TEST_BOOL", true))

	t.Setenv("ENV_TEST_BOOL", "maybe")
	assert.True(t, Bool("ENV_TEST_BOOL", true))
}
