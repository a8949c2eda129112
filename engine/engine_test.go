package engine

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-refgraph/refgraph/dereference"
)

// S1: direct circular external ref.
func TestParseDoesNotReportCircular(t *testing.T) {
	doc, err := Parse("testdata/circular/a.yaml")
	require.NoError(t, err)
	assert.False(t, doc.Circular())
	assert.Empty(t, doc.CircularRefs())
}

func TestDereferenceDetectsCircularChain(t *testing.T) {
	doc, err := Dereference("testdata/circular/a.yaml", WithCircularPolicy(dereference.CircularIgnore))
	require.NoError(t, err)
	assert.True(t, doc.Circular())
	assert.Equal(t, []string{"#/foo/foo"}, doc.CircularRefs())
}

// S3: shared identity after dereference.
func TestDereferenceSharesIdenticalTargets(t *testing.T) {
	src := []byte(`
definitions:
  name:
    type: string
schema:
  properties:
    name:
      $ref: "#/definitions/name"
  definitions:
    name:
      $ref: "#/definitions/name"
`)
	doc, err := Dereference("", WithBytes(src))
	require.NoError(t, err)

	root := doc.Value.(map[string]any)
	schema := root["schema"].(map[string]any)
	props := schema["properties"].(map[string]any)
	defs := schema["definitions"].(map[string]any)
	assert.Equal(t, reflect.ValueOf(props["name"]).Pointer(), reflect.ValueOf(defs["name"]).Pointer())
}

// S4: HTTP redirect overflow.
func TestHTTPResolverRedirectOverflow(t *testing.T) {
	var finalURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/c", http.StatusFound)
	})
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/d", http.StatusFound)
	})
	mux.HandleFunc("/d", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	finalURL = srv.URL + "/a"

	_, err := Parse(finalURL, WithHTTPRedirects(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect")
}

// S5: empty document fails under the default allowEmpty=false parser.
func TestParseEmptyDocumentFails(t *testing.T) {
	_, err := Parse("", WithReader(strings.NewReader("")))
	require.Error(t, err)
}

// S5: empty document parses to nil under allowEmpty=true.
func TestParseEmptyDocumentSucceedsWhenAllowed(t *testing.T) {
	doc, err := Parse("", WithReader(strings.NewReader("")), WithAllowEmptyYAML(true))
	require.NoError(t, err)
	assert.Nil(t, doc.Value)
}

// S6: bundling two external files collapses into one self-contained tree.
func TestBundleCollapsesExternalRefs(t *testing.T) {
	doc, err := Bundle("testdata/bundle/root.yaml")
	require.NoError(t, err)

	root := doc.Value.(map[string]any)
	schemas := root["schemas"].(map[string]any)
	a := schemas["a"].(map[string]any)
	b := schemas["b"].(map[string]any)
	assert.Equal(t, "#/definitions/other1/Pet", a["$ref"])
	assert.Equal(t, "#/definitions/other2/Dog", b["$ref"])

	defs := root["definitions"].(map[string]any)
	assert.Contains(t, defs, "other1")
	assert.Contains(t, defs, "other2")
}

func TestResolveVisitsAllDocuments(t *testing.T) {
	cat, err := Resolve("testdata/bundle/root.yaml")
	require.NoError(t, err)
	paths := cat.Paths(nil)
	assert.Len(t, paths, 3)
}
