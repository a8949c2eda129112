package refparse

import (
	"sort"
	"sync"

	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refdoc"
)

// Parser turns a read FileDescriptor's bytes into a JSON-compatible value
// tree. Implementations are registered in a Registry and selected the same
// way Resolvers are.
type Parser interface {
	// Order controls selection precedence: lower runs first.
	Order() int
	// AllowEmpty reports this parser's policy for zero-byte input. When
	// false, a zero-byte FileDescriptor fails with *referrors.ParseError.
	AllowEmpty() bool
	// CanParse reports whether this parser recognizes file's extension or
	// content.
	CanParse(file refdoc.FileDescriptor) bool
	// Parse decodes file.Data into a value tree.
	Parse(file refdoc.FileDescriptor) (any, error)
}

// Registry holds an ordered set of Parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers []Parser
}

// NewRegistry creates a Registry seeded with parsers.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{}
	r.Add(parsers...)
	return r
}

// Add registers additional parsers, keeping the registry sorted by Order.
func (r *Registry) Add(parsers ...Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, parsers...)
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Order() < r.parsers[j].Order()
	})
}

// Parse selects a parser for file and decodes it. Parsers whose CanParse
// reports true are tried first, in Order; if none match, every registered
// parser is tried as a fallback (spec.md §4.3). If every parser tried
// fails, the last error is returned; if no parser could be tried at all,
// *referrors.UnmatchedParserError is returned.
func (r *Registry) Parse(file refdoc.FileDescriptor) (any, error) {
	r.mu.RLock()
	all := make([]Parser, len(r.parsers))
	copy(all, r.parsers)
	r.mu.RUnlock()

	if len(file.Data) == 0 {
		for _, p := range all {
			if p.CanParse(file) && !p.AllowEmpty() {
				return nil, &referrors.ParseError{URL: file.URL.String(), Message: "empty document"}
			}
		}
	}

	var matched []Parser
	for _, p := range all {
		if p.CanParse(file) {
			matched = append(matched, p)
		}
	}

	candidates := matched
	if len(candidates) == 0 {
		candidates = all
	}
	if len(candidates) == 0 {
		return nil, &referrors.UnmatchedParserError{URL: file.URL.String(), Extension: file.Extension}
	}

	var lastErr error
	for _, p := range candidates {
		if len(file.Data) == 0 && !p.AllowEmpty() {
			continue
		}
		value, err := p.Parse(file)
		if err == nil {
			return value, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return nil, &referrors.UnmatchedParserError{URL: file.URL.String(), Extension: file.Extension}
	}
	return nil, lastErr
}
