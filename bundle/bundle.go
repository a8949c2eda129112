// Package bundle produces a single self-contained document by inlining
// every external $ref target into the root document under a canonical,
// collision-safe insertion pointer, then rewriting the original $ref
// values to point at those internal locations.
package bundle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/pointer"
	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refurl"
)

// DefaultInsertionPrefix is the root-relative key under which inlined
// bodies are grafted, mirroring the "definitions/<name>" convention common
// to JSON Schema and OpenAPI documents.
const DefaultInsertionPrefix = "definitions"

// frame identifies a distinct external target document. Bundling inlines
// one body per target *URL*, not per pointer within it — spec.md §4.8 —
// so sibling fragments of the same document share one inlined body,
// addressed by a further-nested internal pointer.
type frame struct {
	url string
}

// Bundler builds a single self-contained tree rooted at a document already
// present, Resolved, in Catalog.
type Bundler struct {
	Catalog *catalog.Catalog
	// InsertionPrefix overrides DefaultInsertionPrefix when non-empty.
	InsertionPrefix string

	root refurl.URL
	out  map[string]any

	// assigned maps an external target URL to the name it was inlined
	// under.
	assigned map[frame]string
	// used tracks names already taken under the insertion prefix, so a
	// name collision gets a numeric suffix — grounded on the teacher's
	// rename-on-collision strategy for reused schema names.
	used map[string]bool
	// building tracks a target URL whose body is still being grafted in,
	// mapped to its insertion pointer, so a ref encountered while inlining
	// it — including one that crosses back to it, forming a cycle —
	// resolves to that pointer instead of recursing.
	building map[frame]string
}

// New creates a Bundler over an existing catalog.
func New(cat *catalog.Catalog) *Bundler {
	return &Bundler{
		Catalog:  cat,
		assigned: make(map[frame]string),
		used:     make(map[string]bool),
		building: make(map[frame]string),
	}
}

// Bundle builds the self-contained tree for the document at rootURL.
func (b *Bundler) Bundle(rootURL refurl.URL) (map[string]any, error) {
	entry := b.Catalog.Get(rootURL)
	if entry == nil || entry.Status != catalog.Resolved {
		return nil, fmt.Errorf("bundle: root %s is not a resolved catalog entry", rootURL.Canonical())
	}
	rootMap, ok := entry.Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("bundle: root %s is not an object document", rootURL.Canonical())
	}

	b.root = rootURL
	b.out = make(map[string]any, len(rootMap))

	if ref, isRef := rootMap["$ref"].(string); isRef {
		rewritten, err := b.rewriteRef(rootURL, "", ref)
		if err != nil {
			return nil, err
		}
		for k, v := range rewritten.(map[string]any) {
			b.out[k] = v
		}
		return b.out, nil
	}

	if err := b.fillInto(rootURL, "", rootMap, b.out); err != nil {
		return nil, err
	}
	return b.out, nil
}

// rewrite copies value (from docURL at ptr) into the output tree, resolving
// and inlining any $ref whose target document differs from docURL.
func (b *Bundler) rewrite(docURL refurl.URL, ptr string, value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			return b.rewriteRef(docURL, ptr, ref)
		}
		out := make(map[string]any, len(v))
		if err := b.fillInto(docURL, ptr, v, out); err != nil {
			return nil, err
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		if err := b.fillInto(docURL, ptr, v, out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return value, nil
	}
}

// fillInto copies value's children into dst, a preallocated map[string]any
// or []any matching value's container type.
func (b *Bundler) fillInto(docURL refurl.URL, ptr string, value any, dst any) error {
	switch v := value.(type) {
	case map[string]any:
		m := dst.(map[string]any)
		for _, key := range sortedKeys(v) {
			childPtr := pointer.Append(ptr, key)
			rewritten, err := b.rewrite(docURL, childPtr, v[key])
			if err != nil {
				return err
			}
			m[key] = rewritten
		}
		return nil
	case []any:
		s := dst.([]any)
		for i, child := range v {
			childPtr := pointer.Append(ptr, strconv.Itoa(i))
			rewritten, err := b.rewrite(docURL, childPtr, child)
			if err != nil {
				return err
			}
			s[i] = rewritten
		}
		return nil
	default:
		return nil
	}
}

// rewriteRef handles one $ref node. A ref into the root document, from any
// document, becomes a local "#..." ref to the same fragment. A ref into any
// other document is inlined: its target document's body is grafted
// into the root exactly once, at a canonical insertion pointer, and every
// occurrence of a ref to it — including one forming a cycle — is rewritten
// to point there.
func (b *Bundler) rewriteRef(docURL refurl.URL, ptr string, ref string) (any, error) {
	target, err := refurl.Resolve(docURL, ref)
	if err != nil {
		return nil, &referrors.ReferenceError{URL: docURL.Canonical(), Pointer: ptr, Target: ref, Cause: err}
	}

	if target.Equal(b.root) {
		return map[string]any{"$ref": "#" + target.Fragment}, nil
	}

	f := frame{url: target.Canonical()}
	if insertionRoot, ok := b.building[f]; ok {
		return map[string]any{"$ref": "#" + appendFragment(insertionRoot, target.Fragment)}, nil
	}
	if name, ok := b.assigned[f]; ok {
		return map[string]any{"$ref": "#" + appendFragment(pointer.Join(b.insertionPrefix(), name), target.Fragment)}, nil
	}

	name := b.claimName(target)
	b.assigned[f] = name
	insertionRoot := pointer.Join(b.insertionPrefix(), name)
	b.building[f] = insertionRoot

	docValue, err := b.Catalog.ResolveJSONPointer(target, "")
	if err != nil {
		delete(b.building, f)
		return nil, &referrors.ReferenceError{URL: docURL.Canonical(), Pointer: ptr, Target: ref, Cause: err}
	}

	body, err := b.rewrite(target, "", docValue)
	delete(b.building, f)
	if err != nil {
		return nil, err
	}

	b.graft(name, body)
	return map[string]any{"$ref": "#" + appendFragment(insertionRoot, target.Fragment)}, nil
}

// graft places body under the root's insertion-prefix container, creating
// that container on first use.
func (b *Bundler) graft(name string, body any) {
	defs, ok := b.out[b.insertionPrefix()].(map[string]any)
	if !ok {
		defs = make(map[string]any)
		b.out[b.insertionPrefix()] = defs
	}
	defs[name] = body
}

// appendFragment extends an internal insertion pointer with a target's own
// in-document fragment, so a ref to a nested path within an inlined
// document (e.g. "other.yaml#/b") keeps addressing that nested path
// (e.g. "#/definitions/other/b") rather than the whole inlined body.
func appendFragment(insertionRoot string, fragment string) string {
	if fragment == "" || fragment == "/" {
		return insertionRoot
	}
	tokens, _ := pointer.Tokens(fragment)
	prefixTokens, _ := pointer.Tokens(insertionRoot)
	return pointer.Join(append(prefixTokens, tokens...)...)
}

func (b *Bundler) insertionPrefix() string {
	if b.InsertionPrefix != "" {
		return b.InsertionPrefix
	}
	return DefaultInsertionPrefix
}

// claimName derives a stable, collision-safe name for target, grounded on
// the teacher's rename-on-collision strategy: a sanitized base name, with
// a numeric suffix appended only if that base name is already taken.
func (b *Bundler) claimName(target refurl.URL) string {
	base := sanitizeName(target)
	if base == "" {
		base = "external"
	}
	name := base
	for n := 2; b.used[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	b.used[name] = true
	return name
}

func sanitizeName(u refurl.URL) string {
	base := u.Path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, base)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
