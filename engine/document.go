package engine

import (
	"github.com/segmentio/encoding/json"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/refurl"
)

// Document wraps the result of a Parse/Dereference/Bundle call together
// with the catalog handle backing it, mirroring parser.ParseResult's
// Data/Document/Stats grouping.
type Document struct {
	// Value is the resulting value tree: the parsed root document for
	// Parse, the expanded tree for Dereference, or the self-contained tree
	// for Bundle.
	Value any
	// SourceURL is the canonical URL of the root document.
	SourceURL string

	catalog *catalog.Catalog
}

// Circular reports whether a circular $ref was encountered while building
// this Document. Always false for Parse results, which never traverse refs.
func (d *Document) Circular() bool {
	if d.catalog == nil {
		return false
	}
	return d.catalog.Circular()
}

// CircularRefs returns the "#/..." output-tree pointers of every circular
// $ref recorded while building this Document.
func (d *Document) CircularRefs() []string {
	if d.catalog == nil {
		return nil
	}
	return d.catalog.CircularRefs()
}

// Paths returns the canonical URLs of every document visited while building
// this Document, matching filter (nil matches every entry).
func (d *Document) Paths(filter func(*catalog.Entry) bool) []string {
	if d.catalog == nil {
		return []string{d.SourceURL}
	}
	return d.catalog.Paths(filter)
}

// Refs returns every $ref location the crawl discovered while building
// this Document, in traversal order. Empty for Parse results, which never
// traverse refs.
func (d *Document) Refs() []catalog.RefLocation {
	if d.catalog == nil {
		return nil
	}
	return d.catalog.Refs()
}

// Catalog returns the underlying catalog handle, for callers that need
// direct access to its entries.
func (d *Document) Catalog() *catalog.Catalog {
	return d.catalog
}

// JSON serializes Value with github.com/segmentio/encoding/json, which the
// engine package uses throughout for its speed over encoding/json on the
// large, deeply nested trees dereference and bundle produce.
func (d *Document) JSON() ([]byte, error) {
	return json.Marshal(d.Value)
}

// JSONIndent serializes Value with indentation, for human-facing output
// (the CLI's -o json format and the MCP server's full_document fields).
func (d *Document) JSONIndent(prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(d.Value, prefix, indent)
}

func newDocument(value any, root refurl.URL, cat *catalog.Catalog) *Document {
	return &Document{Value: value, SourceURL: root.Canonical(), catalog: cat}
}
