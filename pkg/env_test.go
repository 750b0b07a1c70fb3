package pkg

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenv(t *testing.T) {
	const fallback = "fallback"

	t.Cleanup(func() {
		os.Clearenv()
	})
	t.Run("unset variable falls back", func(t *testing.T) {
		assert.Equal(t, fallback, Getenv("some-unset-variable", fallback))
	})
	t.Run("explicitly empty value wins over the fallback", func(t *testing.T) {
		require.NoError(t, os.Setenv("k", ""))
		assert.Empty(t, Getenv("k", fallback))
	})
	t.Run("set value is returned", func(t *testing.T) {
		require.NoError(t, os.Setenv("k", "v"))
		assert.Equal(t, "v", Getenv("k", fallback))
	})
}
