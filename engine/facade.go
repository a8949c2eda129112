// Package engine is the public facade over the reference graph engine: it
// wires the resolve/refparse registries with their built-ins, owns the
// Logger interface, and exposes Parse/Resolve/Dereference/Bundle as the
// four top-level operations spec.md §2 describes.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-refgraph/refgraph/bundle"
	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/crawler"
	"github.com/go-refgraph/refgraph/dereference"
	"github.com/go-refgraph/refgraph/refdoc"
	"github.com/go-refgraph/refgraph/refparse"
	"github.com/go-refgraph/refgraph/refurl"
	"github.com/go-refgraph/refgraph/resolve"
)

// Parse reads and decodes the document at src (a filesystem path, file:
// URL, or http(s) URL) — or the configured WithReader/WithBytes source —
// without following any $ref. Use Resolve, Dereference, or Bundle to also
// traverse references.
func Parse(src string, opts ...Option) (*Document, error) {
	cfg, err := applyOptionsWithSrc(src, opts)
	if err != nil {
		return nil, err
	}
	rootURL, value, cat, _, _, err := buildRoot(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return newDocument(value, rootURL, cat), nil
}

// Resolve crawls every $ref reachable from src to a fixpoint, returning the
// Document Catalog populated with every document visited.
func Resolve(src string, opts ...Option) (*catalog.Catalog, error) {
	cfg, err := applyOptionsWithSrc(src, opts)
	if err != nil {
		return nil, err
	}
	_, cat, err := resolveCatalog(context.Background(), cfg)
	return cat, err
}

// Dereference builds a transformed copy of src's document tree in which
// every $ref node is replaced by its target sub-tree, per cfg's
// CircularPolicy (default dereference.CircularReject).
func Dereference(src string, opts ...Option) (*Document, error) {
	cfg, err := applyOptionsWithSrc(src, opts)
	if err != nil {
		return nil, err
	}
	rootURL, cat, err := resolveCatalog(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	d := dereference.New(cat, cfg.circularPolicy)
	d.MaxDepth = cfg.maxRefDepth
	value, err := d.Dereference(rootURL)
	if err != nil {
		return nil, err
	}
	return newDocument(value, rootURL, cat), nil
}

// Bundle builds a single self-contained tree rooted at src, inlining every
// external $ref target under a canonical insertion pointer.
func Bundle(src string, opts ...Option) (*Document, error) {
	cfg, err := applyOptionsWithSrc(src, opts)
	if err != nil {
		return nil, err
	}
	rootURL, cat, err := resolveCatalog(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	b := bundle.New(cat)
	value, err := b.Bundle(rootURL)
	if err != nil {
		return nil, err
	}
	return newDocument(value, rootURL, cat), nil
}

// applyOptionsWithSrc treats a non-empty src as the positional input
// source, folding it into the same "exactly one input source" validation
// WithReader/WithBytes participate in.
func applyOptionsWithSrc(src string, opts []Option) (*engineConfig, error) {
	if src != "" {
		opts = append([]Option{func(cfg *engineConfig) error {
			cfg.src = &src
			return nil
		}}, opts...)
	}
	return applyOptions(opts...)
}

// resolveCatalog runs buildRoot then crawls to fixpoint, returning the root
// URL and the populated catalog.
func resolveCatalog(ctx context.Context, cfg *engineConfig) (refurl.URL, *catalog.Catalog, error) {
	rootURL, _, cat, resolvers, parsers, err := buildRoot(ctx, cfg)
	if err != nil {
		return refurl.URL{}, nil, err
	}

	reader := &catalogReader{
		cat:       cat,
		resolvers: resolvers,
		parsers:   parsers,
		maxCached: cfg.maxCachedDocuments,
		logger:    cfg.logger,
	}
	c := crawler.New(cat, reader)
	c.ContinueOnError = cfg.continueOnError
	c.ExternalOnly = cfg.externalOnly
	if err := c.Crawl(ctx, rootURL); err != nil {
		return refurl.URL{}, nil, err
	}
	return rootURL, cat, nil
}

// buildRoot resolves cfg's input source into a root URL and parsed value,
// inserts it into a fresh catalog as Resolved, and returns the registries
// built from cfg so callers needing to crawl further can reuse them.
func buildRoot(ctx context.Context, cfg *engineConfig) (refurl.URL, any, *catalog.Catalog, *resolve.Registry, *refparse.Registry, error) {
	cwd := cfg.cwd
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		} else {
			cwd = "."
		}
	}
	cwdURL := refurl.WorkingDirectoryURL(cwd)
	resolvers := newResolverRegistry(cfg)
	parsers := newParserRegistry(cfg)
	cat := catalog.New()

	var rootURL refurl.URL
	var value any

	switch {
	case cfg.src != nil:
		u, err := refurl.Parse(*cfg.src, cwdURL)
		if err != nil {
			return refurl.URL{}, nil, nil, nil, nil, fmt.Errorf("engine: %w", err)
		}
		rootURL = u
		reader := &catalogReader{cat: cat, resolvers: resolvers, parsers: parsers, logger: cfg.logger}
		v, err := reader.Read(ctx, rootURL)
		if err != nil {
			return refurl.URL{}, nil, nil, nil, nil, err
		}
		value = v

	case cfg.bytes != nil:
		rootURL, _ = refurl.Parse("bytes.yaml", cwdURL)
		file := refdoc.FileDescriptor{URL: rootURL, Extension: ".yaml", Data: cfg.bytes}
		v, err := parsers.Parse(file)
		if err != nil {
			return refurl.URL{}, nil, nil, nil, nil, err
		}
		value = v

	case cfg.reader != nil:
		data, err := io.ReadAll(cfg.reader)
		if err != nil {
			return refurl.URL{}, nil, nil, nil, nil, fmt.Errorf("engine: reading input: %w", err)
		}
		rootURL, _ = refurl.Parse("reader.yaml", cwdURL)
		file := refdoc.FileDescriptor{URL: rootURL, Extension: ".yaml", Data: data}
		v, err := parsers.Parse(file)
		if err != nil {
			return refurl.URL{}, nil, nil, nil, nil, err
		}
		value = v

	default:
		return refurl.URL{}, nil, nil, nil, nil, fmt.Errorf("engine: no input source specified")
	}

	cat.Set(rootURL, value)
	return rootURL, value, cat, resolvers, parsers, nil
}
