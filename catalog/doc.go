// Package catalog holds the Document Catalog: the map from canonical URL to
// parsed document that the crawler populates, the dereferencer consults, and
// the bundler inlines from.
//
// The Catalog owns every document value tree it holds; values become
// immutable once an entry transitions to Resolved. It is passed explicitly
// through crawl/dereference/bundle calls rather than kept as a package-level
// singleton, so concurrent top-level operations never interfere with each
// other (spec.md §9, "Global mutable state").
package catalog
