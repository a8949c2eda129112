// Package refgraph provides a reference graph engine: parsing, resolving,
// dereferencing, and bundling of JSON-Reference-bearing documents (JSON
// Schema, OpenAPI, or any JSON/YAML graph that uses "$ref").
//
// The engine package is the public entry point:
//
//	doc, err := engine.Parse("api.yaml")
//	doc, err := engine.Dereference("api.yaml", engine.WithCircularPolicy(dereference.CircularShare))
//	doc, err := engine.Bundle("api.yaml")
//
// Lower-level packages (refurl, resolve, refparse, catalog, pointer,
// crawler, dereference, bundle) are plumbing consumed by engine and by the
// cmd/refgraph CLI and internal/mcpserver; nothing else in this module
// needs to import them directly.
package refgraph
