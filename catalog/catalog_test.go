package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-refgraph/refgraph/refurl"
)

func u(t *testing.T, s string) refurl.URL {
	t.Helper()
	cwd := refurl.WorkingDirectoryURL("/specs/")
	parsed, err := refurl.Parse(s, cwd)
	require.NoError(t, err)
	return parsed
}

func TestEnsurePendingDedup(t *testing.T) {
	c := New()
	root := u(t, "/specs/root.yaml")

	entry1, inserted1 := c.EnsurePending(root, "file")
	entry2, inserted2 := c.EnsurePending(root, "file")

	assert.True(t, inserted1)
	assert.False(t, inserted2)
	assert.Same(t, entry1, entry2)
}

func TestResolveThenGet(t *testing.T) {
	c := New()
	root := u(t, "/specs/root.yaml")
	c.EnsurePending(root, "file")
	c.Resolve(root, map[string]any{"a": 1}, nil)

	entry := c.Get(root)
	require.NotNil(t, entry)
	assert.Equal(t, Resolved, entry.Status)
	assert.Equal(t, map[string]any{"a": 1}, entry.Value)
}

func TestResolveError(t *testing.T) {
	c := New()
	root := u(t, "/specs/root.yaml")
	c.EnsurePending(root, "file")
	c.Resolve(root, nil, errors.New("boom"))

	entry := c.Get(root)
	require.NotNil(t, entry)
	assert.Equal(t, Errored, entry.Status)
	assert.EqualError(t, entry.Err, "boom")
}

func TestPathsFilter(t *testing.T) {
	c := New()
	a := u(t, "/specs/a.yaml")
	b := u(t, "/specs/b.yaml")
	c.Resolve(a, map[string]any{}, nil)
	c.Resolve(b, nil, errors.New("nope"))

	resolved := c.Paths(func(e *Entry) bool { return e.Status == Resolved })
	assert.ElementsMatch(t, []string{a.Canonical()}, resolved)

	all := c.Paths(nil)
	assert.Len(t, all, 2)
}

func TestResolveJSONPointerLocal(t *testing.T) {
	c := New()
	root := u(t, "/specs/root.yaml")
	c.Resolve(root, map[string]any{
		"definitions": map[string]any{
			"Pet": map[string]any{"type": "object"},
		},
	}, nil)

	v, err := c.ResolveJSONPointer(root, "/definitions/Pet/type")
	require.NoError(t, err)
	assert.Equal(t, "object", v)
}

func TestResolveJSONPointerFollowsMidPathRef(t *testing.T) {
	c := New()
	root := u(t, "/specs/root.yaml")
	c.Resolve(root, map[string]any{
		"a":   map[string]any{"$ref": "#/b"},
		"b":   map[string]any{"value": 42},
	}, nil)

	v, err := c.ResolveJSONPointer(root, "/a/value")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestMarkCircular(t *testing.T) {
	c := New()
	assert.False(t, c.Circular())
	c.MarkCircular("#/foo/foo")
	assert.True(t, c.Circular())
	assert.Equal(t, []string{"#/foo/foo"}, c.CircularRefs())
}
