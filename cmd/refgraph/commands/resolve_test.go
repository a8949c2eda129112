package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupResolveFlags(t *testing.T) {
	fs, flags := SetupResolveFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, FormatText, flags.Output)
		assert.False(t, flags.ExternalOnly)
		assert.Equal(t, -1*time.Nanosecond, flags.CacheTTL)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"--external-only", "--cache-ttl", "30s", "test.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.True(t, flags.ExternalOnly)
		assert.Equal(t, 30*time.Second, flags.CacheTTL)
		assert.Equal(t, "test.yaml", fs.Arg(0))
	})
}

func TestHandleResolve_NoArgs(t *testing.T) {
	err := HandleResolve([]string{})
	assert.Error(t, err)
}

func TestHandleResolve_Help(t *testing.T) {
	err := HandleResolve([]string{"--help"})
	assert.NoError(t, err)
}
