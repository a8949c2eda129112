package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecInputResolveFile(t *testing.T) {
	src, opts, err := specInput{File: "api.yaml"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "api.yaml", src)
	assert.Empty(t, opts)
}

func TestSpecInputResolveContent(t *testing.T) {
	src, opts, err := specInput{Content: "{}"}.resolve()
	require.NoError(t, err)
	assert.Empty(t, src)
	assert.Len(t, opts, 1)
}

func TestSpecInputResolveRejectsNone(t *testing.T) {
	_, _, err := specInput{}.resolve()
	assert.Error(t, err)
}

func TestSpecInputResolveRejectsMultiple(t *testing.T) {
	_, _, err := specInput{File: "a.yaml", URL: "http://example.com/a.yaml"}.resolve()
	assert.Error(t, err)
}
