// Package pointer implements RFC 6901 JSON Pointer navigation over the
// generic value trees refgraph parses: Get walks a pointer to read a value,
// Set walks a pointer to graft one in — the latter is how the bundle package
// inlines external sub-trees into the root's output tree.
package pointer
