package catalog

import (
	"sync"

	"github.com/go-refgraph/refgraph/pointer"
	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refurl"
)

// Status is the lifecycle state of a catalog Entry.
type Status int

const (
	// Pending means an entry was discovered (inserted as a placeholder)
	// but its bytes have not yet been read and parsed.
	Pending Status = iota
	// Resolved means the entry's value has been read, parsed, and
	// crawled for further $ref targets.
	Resolved
	// Errored means resolving or parsing the entry's bytes failed.
	Errored
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Entry is a single Document Catalog row, keyed by its canonical URL
// (without fragment).
type Entry struct {
	URL      refurl.URL
	PathType string // "file", "http", "https"
	Value    any
	Status   Status
	Err      error
}

// RefLocation records where a $ref was found during a crawl, and what it
// resolves to, so later passes over the same catalog (the Dereferencer, the
// Bundler, a caller inspecting the graph) don't need to re-walk every
// document to rediscover it.
type RefLocation struct {
	// DocURL is the canonical URL of the document containing the $ref.
	DocURL string `json:"doc_url" yaml:"doc_url"`
	// Pointer is the $ref node's own location, from its document's root.
	Pointer string `json:"pointer" yaml:"pointer"`
	// TargetURL is the canonical URL the $ref resolves to.
	TargetURL string `json:"target_url" yaml:"target_url"`
	// TargetPointer is the fragment (JSON Pointer) within TargetURL.
	TargetPointer string `json:"target_pointer" yaml:"target_pointer"`
}

// Catalog maps canonical URLs to Entries. The zero value is not usable; use
// New.
type Catalog struct {
	mu    sync.Mutex
	byURL map[string]*Entry

	// circular and circularRefs are written only by the dereference
	// package, via MarkCircular.
	circular     bool
	circularRefs []string

	// refs is written only by the crawler package, via RecordRef.
	refs []RefLocation
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{byURL: make(map[string]*Entry)}
}

// Exists reports whether an entry for u's canonical form is present,
// regardless of status.
func (c *Catalog) Exists(u refurl.URL) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.byURL[u.Canonical()]
	return ok
}

// Get returns the entry for u's canonical form, or nil if absent.
func (c *Catalog) Get(u refurl.URL) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byURL[u.Canonical()]
}

// EnsurePending inserts a Pending placeholder entry for u if one does not
// already exist, and reports whether it inserted one. Callers use this to
// implement the "exactly one in-flight read per canonical URL" rule: only
// the caller that wins the insert should schedule a read.
func (c *Catalog) EnsurePending(u refurl.URL, pathType string) (entry *Entry, inserted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := u.Canonical()
	if existing, ok := c.byURL[key]; ok {
		return existing, false
	}
	entry = &Entry{URL: u, PathType: pathType, Status: Pending}
	c.byURL[key] = entry
	return entry, true
}

// Resolve transitions u's entry to Resolved with value, and to Errored with
// err when err is non-nil.
func (c *Catalog) Resolve(u refurl.URL, value any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := u.Canonical()
	entry, ok := c.byURL[key]
	if !ok {
		entry = &Entry{URL: u}
		c.byURL[key] = entry
	}
	if err != nil {
		entry.Status = Errored
		entry.Err = err
		return
	}
	entry.Value = value
	entry.Status = Resolved
}

// Set stores value directly for u, marking the entry Resolved. Used by
// callers that already hold a parsed root document (e.g. engine.Parse's
// already-parsed-value entry point).
func (c *Catalog) Set(u refurl.URL, value any) {
	c.Resolve(u, value, nil)
}

// Paths returns the canonical URL strings of every entry matching filter.
// A nil filter matches every entry.
func (c *Catalog) Paths(filter func(*Entry) bool) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for key, entry := range c.byURL {
		if filter == nil || filter(entry) {
			out = append(out, key)
		}
	}
	return out
}

// Values returns the entries matching filter. A nil filter matches every
// entry.
func (c *Catalog) Values(filter func(*Entry) bool) []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Entry
	for _, entry := range c.byURL {
		if filter == nil || filter(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// MarkCircular records that a circular $ref was found at refPointer, a
// "#/..." pointer into the dereferenced output tree. Only the dereference
// package calls this.
func (c *Catalog) MarkCircular(refPointer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.circular = true
	c.circularRefs = append(c.circularRefs, refPointer)
}

// Circular reports whether any circular $ref was recorded by a prior
// Dereference call against this catalog.
func (c *Catalog) Circular() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.circular
}

// RecordRef records one $ref location discovered while crawling. Only the
// crawler package calls this.
func (c *Catalog) RecordRef(loc RefLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs = append(c.refs, loc)
}

// Refs returns every $ref location recorded by RecordRef, in discovery
// order.
func (c *Catalog) Refs() []RefLocation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RefLocation, len(c.refs))
	copy(out, c.refs)
	return out
}

// CircularRefs returns the pointers recorded by MarkCircular.
func (c *Catalog) CircularRefs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.circularRefs))
	copy(out, c.circularRefs)
	return out
}

// ResolveJSONPointer walks ptr into the document at u, following any nested
// $ref values encountered mid-path by consulting the catalog transitively
// (this is how "#/a/$ref/b" resolves across document boundaries).
func (c *Catalog) ResolveJSONPointer(u refurl.URL, ptr string) (any, error) {
	current, err := c.ResolveJSONPointerNode(u, ptr)
	if err != nil {
		return nil, err
	}
	if refTarget, ok := refString(current); ok {
		return c.followRef(u, refTarget)
	}
	return current, nil
}

// ResolveJSONPointerNode walks ptr into the document at u like
// ResolveJSONPointer, following any nested $ref encountered mid-path, but
// returns the node ptr addresses as-is even when that node is itself a
// $ref. Callers that need to see a frame before crossing it — the
// Dereferencer's cycle detection, in particular — must use this instead of
// ResolveJSONPointer, whose terminal-ref-following would walk straight past
// the frame where a cycle actually closes.
func (c *Catalog) ResolveJSONPointerNode(u refurl.URL, ptr string) (any, error) {
	entry := c.Get(u)
	if entry == nil || entry.Status != Resolved {
		return nil, &referrors.MissingPointerError{URL: u.Canonical(), Pointer: ptr}
	}

	tokens, err := pointer.Tokens(ptr)
	if err != nil {
		return nil, err
	}

	current := entry.Value
	for i, tok := range tokens {
		if refTarget, ok := refString(current); ok {
			resolved, err := c.followRef(u, refTarget)
			if err != nil {
				return nil, err
			}
			current = resolved
		}
		next, err := pointer.Get(current, pointer.Join(tok))
		if err != nil {
			return nil, &referrors.MissingPointerError{
				URL:      u.Canonical(),
				Pointer:  ptr,
				FailedAt: pointer.Join(tokens[:i+1]...),
			}
		}
		current = next
	}

	return current, nil
}

// followRef resolves a $ref string found mid-traversal against base's
// document, returning the value it points to.
func (c *Catalog) followRef(base refurl.URL, ref string) (any, error) {
	target, err := refurl.Resolve(base, ref)
	if err != nil {
		return nil, err
	}
	return c.ResolveJSONPointer(target, target.Fragment)
}

// refString reports whether v is a ref node ({"$ref": "..."}) and returns
// its target string.
func refString(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	ref, ok := m["$ref"].(string)
	return ref, ok
}
