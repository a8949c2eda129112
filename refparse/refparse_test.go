package refparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-refgraph/refgraph/refdoc"
	"github.com/go-refgraph/refgraph/refurl"
)

func descriptor(t *testing.T, ext string, data string) refdoc.FileDescriptor {
	t.Helper()
	cwd := refurl.WorkingDirectoryURL("/")
	u, err := refurl.Parse("/doc"+ext, cwd)
	require.NoError(t, err)
	return refdoc.FileDescriptor{URL: u, Extension: ext, Data: []byte(data)}
}

func TestYAMLJSONParserDecodesJSON(t *testing.T) {
	p := &YAMLJSONParser{}
	v, err := p.Parse(descriptor(t, ".json", `{"a": 1, "b": [1, 2, 3]}`))
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, int(m["a"].(int)))
}

func TestYAMLJSONParserDecodesYAML(t *testing.T) {
	p := &YAMLJSONParser{}
	v, err := p.Parse(descriptor(t, ".yaml", "a:\n  b: 1\n  c:\n    - x\n    - y\n"))
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	a, ok := m["a"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"x", "y"}, a["c"])
}

func TestYAMLJSONParserEmptyRejected(t *testing.T) {
	reg := NewRegistry(&YAMLJSONParser{}, &TextParser{}, &BinaryParser{})
	_, err := reg.Parse(descriptor(t, ".yaml", ""))
	require.Error(t, err)
}

func TestYAMLJSONParserEmptyAllowedYieldsNil(t *testing.T) {
	reg := NewRegistry(&YAMLJSONParser{AllowEmptyValue: true}, &TextParser{}, &BinaryParser{})
	v, err := reg.Parse(descriptor(t, ".yaml", ""))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRegistryFallsBackToText(t *testing.T) {
	reg := NewRegistry(&YAMLJSONParser{}, &TextParser{}, &BinaryParser{})
	v, err := reg.Parse(descriptor(t, ".txt", "hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", v)
}

func TestRegistryFallsBackToBinaryForNonUTF8(t *testing.T) {
	reg := NewRegistry(&YAMLJSONParser{}, &TextParser{}, &BinaryParser{})
	v, err := reg.Parse(descriptor(t, ".bin", string([]byte{0xff, 0xfe, 0x00})))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 0x00}, v)
}

func TestRegistryUnmatchedWhenEmptyAndNoFallback(t *testing.T) {
	reg := NewRegistry(&YAMLJSONParser{})
	_, err := reg.Parse(descriptor(t, ".yaml", ""))
	require.Error(t, err)
}
