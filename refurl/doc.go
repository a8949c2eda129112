// Package refurl parses, joins, and classifies the location strings that
// refgraph navigates: filesystem paths (including Windows drive letters and
// UNC paths), file: URLs, http(s): URLs, and bare JSON Pointer fragments.
//
// Every location the engine touches is normalized into a URL before it is
// handed to the resolve or catalog packages, so that equality, caching, and
// the "exactly one catalog entry per canonical URL" invariant all have a
// single, unambiguous key to work from.
package refurl
