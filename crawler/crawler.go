// Package crawler performs the depth-first discovery pass of the reference
// graph engine: starting from a parsed root document, it walks every node,
// finds $ref strings, resolves them against their containing document's
// URL, and drives the catalog to a fixpoint where every referenced URL has
// a resolved (or errored) entry.
package crawler

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/pointer"
	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refurl"
)

// Reader fetches and decodes the document at a URL into a value tree. The
// engine package wires this to a resolve.Registry + refparse.Registry pair.
type Reader interface {
	Read(ctx context.Context, u refurl.URL) (any, error)
}

// Crawler walks parsed document trees, discovering $ref targets and driving
// a Catalog to fixpoint. ContinueOnError, when true, records a read/parse
// failure as an Errored catalog entry and keeps crawling instead of
// aborting the whole operation.
type Crawler struct {
	Catalog         *catalog.Catalog
	Reader          Reader
	ContinueOnError bool
	// ExternalOnly, when true, skips scheduling a same-document $ref for
	// discovery — it already resolves against the document already in the
	// catalog, so there is nothing to read — realizing spec.md §6's
	// resolve.external restriction to cross-document targets.
	ExternalOnly bool

	// discoveries accumulates URLs the current wave's walk inserted as
	// Pending, pending a read in drainDiscoveries.
	discoveries []discovered
}

// New creates a Crawler over an existing catalog and reader.
func New(cat *catalog.Catalog, reader Reader) *Crawler {
	return &Crawler{Catalog: cat, Reader: reader}
}

// Crawl walks the document at rootURL (already present in the catalog as
// Resolved) to fixpoint: every $ref target it discovers is read, parsed,
// inserted into the catalog, and recursively crawled, until no new URLs
// appear. Discovery proceeds in waves — the outstanding reads of one wave
// are joined via errgroup before the next wave's values are traversed —
// realizing spec.md §5's "task set with structured concurrency."
func (c *Crawler) Crawl(ctx context.Context, rootURL refurl.URL) error {
	entry := c.Catalog.Get(rootURL)
	if entry == nil || entry.Status != catalog.Resolved {
		return fmt.Errorf("crawler: root %s is not a resolved catalog entry", rootURL.Canonical())
	}

	wave := []pendingVisit{{url: rootURL, value: entry.Value}}
	for len(wave) > 0 {
		for _, visit := range wave {
			c.walk(visit.url, visit.value, "")
		}

		next, err := c.drainDiscoveries(ctx)
		if err != nil {
			return err
		}
		wave = next
	}
	return nil
}

type pendingVisit struct {
	url   refurl.URL
	value any
}

// discovered tracks a URL this wave inserted as Pending, so it can be read
// and handed to the next wave once resolved.
type discovered struct {
	url refurl.URL
}

// walk performs the depth-first traversal of value, which lives inside the
// document at docURL, tracking ptr as the JSON Pointer from that document's
// root. Ref nodes are recorded and their targets scheduled for discovery;
// sibling keys next to $ref are intentionally not traversed.
func (c *Crawler) walk(docURL refurl.URL, value any, ptr string) {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			c.discoverRef(docURL, ptr, ref)
			return
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			c.walk(docURL, v[key], pointer.Append(ptr, key))
		}
	case []any:
		for i, child := range v {
			c.walk(docURL, child, pointer.Append(ptr, strconv.Itoa(i)))
		}
	}
}

// discoverRef handles one $ref node found at ptr within docURL's document.
func (c *Crawler) discoverRef(docURL refurl.URL, ptr string, ref string) {
	target, err := refurl.Resolve(docURL, ref)
	if err != nil {
		return
	}

	c.Catalog.RecordRef(catalog.RefLocation{
		DocURL:        docURL.Canonical(),
		Pointer:       ptr,
		TargetURL:     target.Canonical(),
		TargetPointer: target.Fragment,
	})

	if c.ExternalOnly && target.Equal(docURL) {
		return
	}

	if _, inserted := c.Catalog.EnsurePending(target, target.Scheme); inserted {
		c.discoveries = append(c.discoveries, discovered{url: target})
	}
}

// drainDiscoveries reads and parses every URL this wave's walk discovered,
// joining them with an errgroup, and returns the next wave's visit list.
func (c *Crawler) drainDiscoveries(ctx context.Context) ([]pendingVisit, error) {
	batch := c.discoveries
	c.discoveries = nil
	if len(batch) == 0 {
		return nil, nil
	}

	results := make([]any, len(batch))
	errs := make([]error, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range batch {
		i, d := i, d
		g.Go(func() error {
			value, err := c.Reader.Read(gctx, d.url)
			results[i] = value
			errs[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var next []pendingVisit
	for i, d := range batch {
		if errs[i] != nil {
			c.Catalog.Resolve(d.url, nil, errs[i])
			if !c.ContinueOnError {
				return nil, &referrors.ReferenceError{URL: d.url.Canonical(), Cause: errs[i]}
			}
			continue
		}
		c.Catalog.Resolve(d.url, results[i], nil)
		next = append(next, pendingVisit{url: d.url, value: results[i]})
	}
	return next, nil
}
