package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() map[string]any {
	return map[string]any{
		"definitions": map[string]any{
			"Pet": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
			},
		},
		"tags": []any{"a", "b", "c"},
	}
}

func TestGetBasic(t *testing.T) {
	tree := sampleTree()
	v, err := Get(tree, "/definitions/Pet/type")
	require.NoError(t, err)
	assert.Equal(t, "object", v)
}

func TestGetArrayIndex(t *testing.T) {
	tree := sampleTree()
	v, err := Get(tree, "/tags/1")
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestGetRoot(t *testing.T) {
	tree := sampleTree()
	v, err := Get(tree, "")
	require.NoError(t, err)
	assert.Equal(t, tree, v)
}

func TestGetMissing(t *testing.T) {
	tree := sampleTree()
	_, err := Get(tree, "/definitions/Missing")
	require.Error(t, err)
}

func TestGetNonCanonicalIndex(t *testing.T) {
	tree := sampleTree()
	_, err := Get(tree, "/tags/01")
	require.Error(t, err)
}

func TestGetOutOfBounds(t *testing.T) {
	tree := sampleTree()
	_, err := Get(tree, "/tags/99")
	require.Error(t, err)
}

func TestEscapeUnescapeRoundtrip(t *testing.T) {
	raw := "a/b~c"
	ptr := Join(raw)
	tokens, err := Tokens(ptr)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, raw, tokens[0])
}

func TestSetGraftsLeaf(t *testing.T) {
	tree := sampleTree()
	err := Set(tree, "/definitions/Pet/type", "string")
	require.NoError(t, err)
	v, _ := Get(tree, "/definitions/Pet/type")
	assert.Equal(t, "string", v)
}

func TestSetNewKey(t *testing.T) {
	tree := sampleTree()
	err := Set(tree, "/definitions/Dog", map[string]any{"type": "object"})
	require.NoError(t, err)
	v, err := Get(tree, "/definitions/Dog/type")
	require.NoError(t, err)
	assert.Equal(t, "object", v)
}

func TestSetRootRejected(t *testing.T) {
	tree := sampleTree()
	err := Set(tree, "", "anything")
	require.Error(t, err)
}

func TestAppendBuildsUpAPointer(t *testing.T) {
	ptr := Append(Append(Append("", "definitions"), "Pet"), "type")
	assert.Equal(t, "/definitions/Pet/type", ptr)
}

func TestAppendEscapesNewToken(t *testing.T) {
	ptr := Append("/a", "b/c")
	assert.Equal(t, "/a/b~1c", ptr)
}
