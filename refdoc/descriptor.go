// Package refdoc defines the FileDescriptor value shared by the resolve and
// refparse registries: a resolver fills in Data from a URL, and a parser
// turns Data into a value tree. Its concrete Data type is opaque to
// everything upstream of the parser that finally interprets it.
package refdoc

import "github.com/go-refgraph/refgraph/refurl"

// FileDescriptor is the input handed to resolvers and parsers.
type FileDescriptor struct {
	// URL is the document's normalized location.
	URL refurl.URL
	// Extension is the lowercased suffix of URL's path (".yaml", ".json", "").
	Extension string
	// Data is populated by a Resolver and consumed by a Parser. Its
	// concrete type (nil before reading, []byte after) is opaque to
	// anything that only routes FileDescriptors around.
	Data []byte
}
