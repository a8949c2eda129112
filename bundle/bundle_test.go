package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/refurl"
)

func mustParse(t *testing.T, s string) refurl.URL {
	t.Helper()
	cwd := refurl.WorkingDirectoryURL("/work")
	u, err := refurl.Parse(s, cwd)
	require.NoError(t, err)
	return u
}

func TestBundleInlinesExternalRefOnce(t *testing.T) {
	cat := catalog.New()
	root := mustParse(t, "/work/root.yaml")
	other := mustParse(t, "/work/other.yaml")
	cat.Set(root, map[string]any{
		"a": map[string]any{"$ref": "other.yaml#/Pet"},
		"b": map[string]any{"$ref": "other.yaml#/Pet"},
	})
	cat.Set(other, map[string]any{"Pet": map[string]any{"type": "object"}})

	b := New(cat)
	out, err := b.Bundle(root)
	require.NoError(t, err)

	a := out["a"].(map[string]any)
	bb := out["b"].(map[string]any)
	assert.Equal(t, "#/definitions/other/Pet", a["$ref"])
	assert.Equal(t, a["$ref"], bb["$ref"])

	defs := out["definitions"].(map[string]any)
	pet := defs["other"].(map[string]any)["Pet"].(map[string]any)
	assert.Equal(t, "object", pet["type"])
}

func TestBundleLeavesInternalRefsAlone(t *testing.T) {
	cat := catalog.New()
	root := mustParse(t, "/work/root.yaml")
	cat.Set(root, map[string]any{
		"a": map[string]any{"$ref": "#/b"},
		"b": map[string]any{"x": 1},
	})

	b := New(cat)
	out, err := b.Bundle(root)
	require.NoError(t, err)

	a := out["a"].(map[string]any)
	assert.Equal(t, "#/b", a["$ref"])
}

func TestBundlePreservesCrossDocumentCycle(t *testing.T) {
	cat := catalog.New()
	root := mustParse(t, "/work/root.yaml")
	other := mustParse(t, "/work/other.yaml")
	cat.Set(root, map[string]any{"a": map[string]any{"$ref": "other.yaml#/Node"}})
	cat.Set(other, map[string]any{
		"Node": map[string]any{
			"child": map[string]any{"$ref": "#/Node"},
		},
	})

	b := New(cat)
	out, err := b.Bundle(root)
	require.NoError(t, err)

	defs := out["definitions"].(map[string]any)
	node := defs["other"].(map[string]any)["Node"].(map[string]any)
	child := node["child"].(map[string]any)
	assert.Equal(t, "#/definitions/other/Node", child["$ref"])
}

func TestBundleCollisionSafeNaming(t *testing.T) {
	cat := catalog.New()
	root := mustParse(t, "/work/a/schema.yaml")
	other1 := mustParse(t, "/work/a/other.yaml")
	other2 := mustParse(t, "/work/b/other.yaml")
	cat.Set(root, map[string]any{
		"x": map[string]any{"$ref": "../a/other.yaml#/P"},
		"y": map[string]any{"$ref": "../b/other.yaml#/P"},
	})
	cat.Set(other1, map[string]any{"P": map[string]any{"from": "a"}})
	cat.Set(other2, map[string]any{"P": map[string]any{"from": "b"}})

	b := New(cat)
	out, err := b.Bundle(root)
	require.NoError(t, err)

	defs := out["definitions"].(map[string]any)
	assert.Len(t, defs, 2)
	_, hasOther := defs["other"]
	_, hasOther2 := defs["other_2"]
	assert.True(t, hasOther)
	assert.True(t, hasOther2)
}
