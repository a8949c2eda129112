package engine

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"

	"github.com/go-refgraph/refgraph/dereference"
	"github.com/go-refgraph/refgraph/internal/options"
	"github.com/go-refgraph/refgraph/refparse"
	"github.com/go-refgraph/refgraph/resolve"
)

// Option configures an engine operation.
type Option func(*engineConfig) error

// engineConfig holds configuration for one Parse/Resolve/Dereference/Bundle
// call.
type engineConfig struct {
	// Input source (exactly one must be set)
	src    *string
	reader io.Reader
	bytes  []byte

	cwd string

	extraResolvers []resolve.Resolver
	extraParsers   []refparse.Parser

	httpHeaders     map[string]string
	httpTimeout     int64 // nanoseconds; 0 means use resolver default
	httpRedirects   int
	httpTokenSource oauth2.TokenSource

	circularPolicy  dereference.CircularPolicy
	continueOnError bool
	externalOnly    bool
	allowEmptyYAML  bool

	cacheTTL    time.Duration
	cacheTTLSet bool

	logger Logger

	maxRefDepth        int
	maxCachedDocuments int
	maxFileSize        int64
}

func applyOptions(opts ...Option) (*engineConfig, error) {
	cfg := &engineConfig{
		logger: NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateInputSource(cfg.src, cfg.reader, cfg.bytes); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCWD sets the working directory used to resolve relative filesystem
// src paths and relative $ref targets. Default: the process's working
// directory (os.Getwd), or "." if that cannot be determined.
func WithCWD(dir string) Option {
	return func(cfg *engineConfig) error {
		if dir == "" {
			return fmt.Errorf("engine: cwd cannot be empty")
		}
		cfg.cwd = dir
		return nil
	}
}

// WithReader specifies an io.Reader as the input source, read eagerly.
func WithReader(r io.Reader) Option {
	return func(cfg *engineConfig) error {
		if r == nil {
			return fmt.Errorf("engine: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source.
func WithBytes(data []byte) Option {
	return func(cfg *engineConfig) error {
		if data == nil {
			return fmt.Errorf("engine: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithResolver registers an additional Resolver, tried alongside the
// built-in filesystem and HTTP resolvers in Order.
func WithResolver(r resolve.Resolver) Option {
	return func(cfg *engineConfig) error {
		if r == nil {
			return fmt.Errorf("engine: resolver cannot be nil")
		}
		cfg.extraResolvers = append(cfg.extraResolvers, r)
		return nil
	}
}

// WithParser registers an additional Parser, tried alongside the built-in
// YAML/JSON/text/binary parsers in Order.
func WithParser(p refparse.Parser) Option {
	return func(cfg *engineConfig) error {
		if p == nil {
			return fmt.Errorf("engine: parser cannot be nil")
		}
		cfg.extraParsers = append(cfg.extraParsers, p)
		return nil
	}
}

// WithHTTPHeaders sets headers added to every HTTP(S) request issued while
// resolving $ref targets.
func WithHTTPHeaders(headers map[string]string) Option {
	return func(cfg *engineConfig) error {
		cfg.httpHeaders = headers
		return nil
	}
}

// WithHTTPTimeout bounds a single HTTP request, in nanoseconds (use
// time.Duration values, e.g. 30*time.Second). Zero uses the resolver's
// default.
func WithHTTPTimeout(timeout int64) Option {
	return func(cfg *engineConfig) error {
		if timeout < 0 {
			return fmt.Errorf("engine: httpTimeout cannot be negative")
		}
		cfg.httpTimeout = timeout
		return nil
	}
}

// WithHTTPRedirects caps the number of redirect hops the HTTP resolver will
// follow. Zero uses the resolver's default (10).
func WithHTTPRedirects(max int) Option {
	return func(cfg *engineConfig) error {
		if max < 0 {
			return fmt.Errorf("engine: httpRedirects cannot be negative")
		}
		cfg.httpRedirects = max
		return nil
	}
}

// WithHTTPCredentials authenticates every HTTP(S) request via OAuth2,
// wrapping requests in an oauth2.Transport backed by source.
func WithHTTPCredentials(source oauth2.TokenSource) Option {
	return func(cfg *engineConfig) error {
		cfg.httpTokenSource = source
		return nil
	}
}

// WithCircularPolicy controls how Dereference reacts to a circular $ref
// chain. Default: dereference.CircularReject.
func WithCircularPolicy(policy dereference.CircularPolicy) Option {
	return func(cfg *engineConfig) error {
		cfg.circularPolicy = policy
		return nil
	}
}

// WithContinueOnError makes the crawl record a resolve/parse failure as an
// Errored catalog entry and continue, instead of aborting the whole
// operation on the first failure.
func WithContinueOnError(enabled bool) Option {
	return func(cfg *engineConfig) error {
		cfg.continueOnError = enabled
		return nil
	}
}

// WithExternalOnly restricts crawling to external (cross-document) $ref
// targets, skipping same-document refs during discovery. Maps to
// resolve.external in spec.md §6.
func WithExternalOnly(enabled bool) Option {
	return func(cfg *engineConfig) error {
		cfg.externalOnly = enabled
		return nil
	}
}

// WithAllowEmptyYAML makes a zero-byte .yaml/.yml/.json document decode to
// a nil value instead of failing with a *referrors.ParseError. Default:
// false, matching scenario S5's allowEmpty=false failure path.
func WithAllowEmptyYAML(allow bool) Option {
	return func(cfg *engineConfig) error {
		cfg.allowEmptyYAML = allow
		return nil
	}
}

// WithCacheTTL enables the resolver registry's per-URL read cache for the
// duration of one crawl, so a document referenced from many $ref pointers
// is only fetched once. A positive ttl expires a cached read after that
// long; zero caches for the lifetime of the call. Caching is off by
// default, matching a fresh crawl reading every target exactly once.
func WithCacheTTL(ttl time.Duration) Option {
	return func(cfg *engineConfig) error {
		if ttl < 0 {
			return fmt.Errorf("engine: cacheTTL cannot be negative")
		}
		cfg.cacheTTL = ttl
		cfg.cacheTTLSet = true
		return nil
	}
}

// WithLogger sets a structured logger for debug output. By default, no
// logging is performed (NopLogger).
func WithLogger(l Logger) Option {
	return func(cfg *engineConfig) error {
		if l == nil {
			return fmt.Errorf("engine: logger cannot be nil")
		}
		cfg.logger = l
		return nil
	}
}

// WithMaxRefDepth caps the depth of Dereference's traversal stack: every
// nested object or array on the current path counts, whether it was reached
// through a $ref or by plain nesting. A value of 0 means no limit. Returns
// an error if depth is negative.
func WithMaxRefDepth(depth int) Option {
	return func(cfg *engineConfig) error {
		if depth < 0 {
			return fmt.Errorf("engine: maxRefDepth cannot be negative")
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxCachedDocuments caps the number of external documents cached
// during a crawl. A value of 0 means use the default.
func WithMaxCachedDocuments(count int) Option {
	return func(cfg *engineConfig) error {
		if count < 0 {
			return fmt.Errorf("engine: maxCachedDocuments cannot be negative")
		}
		cfg.maxCachedDocuments = count
		return nil
	}
}

// WithMaxFileSize caps the size, in bytes, of any single document read
// during a crawl. A value of 0 means use the default.
func WithMaxFileSize(size int64) Option {
	return func(cfg *engineConfig) error {
		if size < 0 {
			return fmt.Errorf("engine: maxFileSize cannot be negative")
		}
		cfg.maxFileSize = size
		return nil
	}
}
