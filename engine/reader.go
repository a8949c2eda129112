package engine

import (
	"context"
	"fmt"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/refdoc"
	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refparse"
	"github.com/go-refgraph/refgraph/refurl"
	"github.com/go-refgraph/refgraph/resolve"
)

// catalogReader implements crawler.Reader by dispatching to a resolve
// Registry then a refparse Registry, and enforces cfg.maxCachedDocuments
// against the catalog's current size before admitting a new document.
type catalogReader struct {
	cat       *catalog.Catalog
	resolvers *resolve.Registry
	parsers   *refparse.Registry
	maxCached int
	logger    Logger
}

func (r *catalogReader) Read(ctx context.Context, u refurl.URL) (any, error) {
	if r.maxCached > 0 && len(r.cat.Paths(nil)) >= r.maxCached {
		return nil, &referrors.ResolverError{
			URL:     u.Canonical(),
			Message: fmt.Sprintf("exceeded max cached documents (%d)", r.maxCached),
		}
	}

	file := refdoc.FileDescriptor{URL: u, Extension: refurl.GetExtension(u.Path)}
	r.logger.Debug("reading document", "url", u.Canonical())

	data, err := r.resolvers.Read(ctx, file)
	if err != nil {
		r.logger.Warn("read failed", "url", u.Canonical(), "error", err)
		return nil, err
	}
	file.Data = data

	value, err := r.parsers.Parse(file)
	if err != nil {
		r.logger.Warn("parse failed", "url", u.Canonical(), "error", err)
		return nil, err
	}
	return value, nil
}

func newResolverRegistry(cfg *engineConfig) *resolve.Registry {
	fsResolver := &resolve.FilesystemResolver{MaxFileSize: cfg.maxFileSize}
	httpResolver := &resolve.HTTPResolver{
		Headers:      cfg.httpHeaders,
		MaxRedirects: cfg.httpRedirects,
		MaxBodySize:  cfg.maxFileSize,
		UserAgent:    userAgent(),
		TokenSource:  cfg.httpTokenSource,
	}
	if cfg.httpTimeout > 0 {
		httpResolver.Timeout = nsToDuration(cfg.httpTimeout)
	}

	reg := resolve.NewRegistry(fsResolver, httpResolver)
	reg.Add(cfg.extraResolvers...)
	if cfg.cacheTTLSet {
		reg.SetCacheTTL(cfg.cacheTTL)
	}
	return reg
}

func newParserRegistry(cfg *engineConfig) *refparse.Registry {
	reg := refparse.NewRegistry(
		&refparse.YAMLJSONParser{AllowEmptyValue: cfg.allowEmptyYAML},
		&refparse.TextParser{},
		&refparse.BinaryParser{},
	)
	reg.Add(cfg.extraParsers...)
	return reg
}
