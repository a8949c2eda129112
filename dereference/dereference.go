// Package dereference builds a transformed copy of a document tree in
// which every $ref node is replaced by its target sub-tree, tracking a
// traversal stack to detect and record circular reference chains.
package dereference

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/pointer"
	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refurl"
)

// CircularPolicy controls how a Dereferencer reacts to a $ref that points
// back at a frame currently being expanded.
type CircularPolicy int

const (
	// CircularReject fails the whole operation with a *referrors.ReferenceError.
	CircularReject CircularPolicy = iota
	// CircularShare substitutes a reference-equal pointer to the
	// in-progress partial tree for the cycle's frame.
	CircularShare
	// CircularIgnore leaves the original $ref node in place, unexpanded.
	CircularIgnore
)

// frame identifies one (document URL, pointer) node. Every container node
// visited — whether reached by plain tree traversal or by following a
// $ref — gets a frame, since a $ref can target any node in the graph,
// including an ancestor of the node it appears in.
type frame struct {
	url string
	ptr string
}

// Dereferencer builds a dereferenced tree rooted at a document already
// present, Resolved, in Catalog.
type Dereferencer struct {
	Catalog *catalog.Catalog
	Policy  CircularPolicy
	// MaxDepth caps the traversal stack depth; zero means unbounded. Guards
	// pathological non-repeating ref chains from exhausting memory.
	MaxDepth int

	stack []frame
	// partial maps a frame currently being filled to its preallocated
	// output container, so a circular $ref discovered mid-fill can share
	// it by reference under CircularShare.
	partial map[frame]any
	// memo maps a finished frame to its output value, so two $refs to the
	// same target — or a $ref and the plain node it targets — yield
	// reference-equal nodes. This is the observable sharing contract
	// tested against testable property 3/S3.
	memo map[frame]any
}

// New creates a Dereferencer over cat with the given circular policy.
func New(cat *catalog.Catalog, policy CircularPolicy) *Dereferencer {
	return &Dereferencer{
		Catalog: cat,
		Policy:  policy,
		partial: make(map[frame]any),
		memo:    make(map[frame]any),
	}
}

// Dereference builds the transformed tree for the document at rootURL.
func (d *Dereferencer) Dereference(rootURL refurl.URL) (any, error) {
	entry := d.Catalog.Get(rootURL)
	if entry == nil || entry.Status != catalog.Resolved {
		return nil, fmt.Errorf("dereference: root %s is not a resolved catalog entry", rootURL.Canonical())
	}
	return d.visit(rootURL, "", "", entry.Value)
}

// visit builds the output node for value, which lives at ptr within the
// document at docURL and at outPtr within the tree being built. outPtr
// tracks position in the *output* tree, which diverges from ptr the moment
// a $ref is followed: the expanded target keeps the $ref node's outPtr
// (that's where it lands in the result) while ptr jumps to the target's own
// pointer within its document. $ref nodes delegate entirely to expandRef;
// every other container node is tracked on the stack/memo/partial tables
// under its own frame so later $refs (from anywhere in the graph) can
// detect a cycle back to it or share its finished value.
func (d *Dereferencer) visit(docURL refurl.URL, ptr string, outPtr string, value any) (any, error) {
	if m, ok := value.(map[string]any); ok {
		if ref, ok := m["$ref"].(string); ok {
			return d.expandRef(docURL, ptr, outPtr, ref)
		}
	}

	f := frame{url: docURL.Canonical(), ptr: ptr}
	if cached, ok := d.memo[f]; ok {
		return cached, nil
	}
	for _, sf := range d.stack {
		if sf == f {
			return d.resolveCircular(docURL, ptr, outPtr, "", f)
		}
	}

	switch v := value.(type) {
	case map[string]any:
		placeholder := make(map[string]any, len(v))
		return d.buildContainer(f, docURL, ptr, outPtr, v, placeholder)
	case []any:
		placeholder := make([]any, len(v))
		return d.buildContainer(f, docURL, ptr, outPtr, v, placeholder)
	default:
		return value, nil
	}
}

// buildContainer pushes f onto the stack, fills placeholder from value's
// children, pops f, memoizes the result, and returns it.
func (d *Dereferencer) buildContainer(f frame, docURL refurl.URL, ptr string, outPtr string, value any, placeholder any) (any, error) {
	if d.MaxDepth > 0 && len(d.stack) >= d.MaxDepth {
		return nil, &referrors.ReferenceError{
			URL: docURL.Canonical(), Pointer: ptr,
			Cause: fmt.Errorf("dereference: exceeded max depth %d", d.MaxDepth),
		}
	}

	d.partial[f] = placeholder
	d.stack = append(d.stack, f)
	err := d.fillInto(docURL, ptr, outPtr, value, placeholder)
	d.stack = d.stack[:len(d.stack)-1]
	delete(d.partial, f)
	if err != nil {
		return nil, err
	}

	d.memo[f] = placeholder
	return placeholder, nil
}

// fillInto expands value's children directly into dst, a preallocated
// map[string]any or []any matching value's container type.
func (d *Dereferencer) fillInto(docURL refurl.URL, ptr string, outPtr string, value any, dst any) error {
	switch v := value.(type) {
	case map[string]any:
		m := dst.(map[string]any)
		for _, key := range sortedKeys(v) {
			childPtr := pointer.Append(ptr, key)
			childOutPtr := pointer.Append(outPtr, key)
			expanded, err := d.visit(docURL, childPtr, childOutPtr, v[key])
			if err != nil {
				return err
			}
			m[key] = expanded
		}
		return nil
	case []any:
		s := dst.([]any)
		for i, child := range v {
			childPtr := pointer.Append(ptr, strconv.Itoa(i))
			childOutPtr := pointer.Append(outPtr, strconv.Itoa(i))
			expanded, err := d.visit(docURL, childPtr, childOutPtr, child)
			if err != nil {
				return err
			}
			s[i] = expanded
		}
		return nil
	default:
		return nil
	}
}

// expandRef handles one $ref node found at ptr within docURL's document,
// landing at outPtr in the output tree. Following the ref moves docURL/ptr
// to the target's location but leaves outPtr where the $ref node sat, since
// that's the position the expanded target occupies in the result.
func (d *Dereferencer) expandRef(docURL refurl.URL, ptr string, outPtr string, ref string) (any, error) {
	target, err := refurl.Resolve(docURL, ref)
	if err != nil {
		return nil, &referrors.ReferenceError{URL: docURL.Canonical(), Pointer: ptr, Target: ref, Cause: err}
	}
	targetFrame := frame{url: target.Canonical(), ptr: target.Fragment}

	if cached, ok := d.memo[targetFrame]; ok {
		return cached, nil
	}
	for _, sf := range d.stack {
		if sf == targetFrame {
			return d.resolveCircular(docURL, ptr, outPtr, ref, targetFrame)
		}
	}

	// ResolveJSONPointerNode, not ResolveJSONPointer: if the target node is
	// itself a $ref, visit must see that un-followed so it re-enters
	// expandRef and checks *that* ref's target frame against the stack.
	// Following it here would walk straight past the frame that actually
	// closes an indirect cycle (spec.md's S1) without ever pushing it.
	targetValue, err := d.Catalog.ResolveJSONPointerNode(target, target.Fragment)
	if err != nil {
		return nil, &referrors.ReferenceError{URL: docURL.Canonical(), Pointer: ptr, Target: ref, Cause: err}
	}
	return d.visit(target, target.Fragment, outPtr, targetValue)
}

// resolveCircular handles a node whose frame is already on the traversal
// stack, per d.Policy. ref is the literal $ref text when known (always,
// except when a plain — non-$ref — revisit is somehow detected, which
// traversal cannot actually produce but is handled defensively). outPtr is
// the $ref node's own location in the output tree, which is what gets
// recorded: it's the pointer a caller can actually look up in the
// dereferenced result, unlike the source (docURL, ptr) pair.
func (d *Dereferencer) resolveCircular(docURL refurl.URL, ptr string, outPtr string, ref string, target frame) (any, error) {
	d.Catalog.MarkCircular("#" + outPtr)

	switch d.Policy {
	case CircularShare:
		if shared, ok := d.partial[target]; ok {
			return shared, nil
		}
		return map[string]any{"$ref": ref}, nil
	case CircularIgnore:
		return map[string]any{"$ref": ref}, nil
	default: // CircularReject
		return nil, &referrors.ReferenceError{
			URL: docURL.Canonical(), Pointer: ptr, Target: ref, IsCircular: true,
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
