package resolve

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refdoc"
)

// Resolver fetches bytes for a URL. Implementations are registered in a
// Registry and tried in ascending Order until one succeeds.
type Resolver interface {
	// Order controls selection precedence: lower runs first.
	Order() int
	// CanRead reports whether this resolver is willing to attempt file.
	CanRead(file refdoc.FileDescriptor) bool
	// Read returns the bytes at file.URL, or a *referrors.ResolverError.
	Read(ctx context.Context, file refdoc.FileDescriptor) ([]byte, error)
}

// cacheEntry stores a cached read with its fetch timestamp for TTL-based
// expiration.
type cacheEntry struct {
	data      []byte
	fetchTime time.Time
}

// Registry holds an ordered set of Resolvers, plus an optional per-URL read
// cache. The cache is keyed by the resolved document's canonical URL, since
// the same external $ref target is typically read once per document but
// referenced from many pointers across a crawl.
type Registry struct {
	mu        sync.RWMutex
	resolvers []Resolver

	cacheMu sync.Mutex
	cache   map[string]*cacheEntry
	// cacheTTL is the time-to-live for cached reads. Zero caches forever.
	// Negative disables caching entirely (the default).
	cacheTTL time.Duration
}

// NewRegistry creates a Registry seeded with resolvers. Caching is disabled
// until SetCacheTTL is called.
func NewRegistry(resolvers ...Resolver) *Registry {
	r := &Registry{cache: make(map[string]*cacheEntry), cacheTTL: -1}
	r.Add(resolvers...)
	return r
}

// SetCacheTTL enables (or reconfigures) the Registry's read cache. A
// positive duration caches a read for that long; zero caches forever; a
// negative duration disables caching and clears any entries already
// cached.
func (r *Registry) SetCacheTTL(ttl time.Duration) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cacheTTL = ttl
	if ttl < 0 {
		r.cache = make(map[string]*cacheEntry)
	}
}

// Add registers additional resolvers, keeping the registry sorted by Order.
func (r *Registry) Add(resolvers ...Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers = append(r.resolvers, resolvers...)
	sort.SliceStable(r.resolvers, func(i, j int) bool {
		return r.resolvers[i].Order() < r.resolvers[j].Order()
	})
}

// Read tries every resolver whose CanRead(file) is true, in Order, until one
// succeeds. If all candidates fail, the last error is returned. If none
// match, *referrors.UnmatchedResolverError is returned. A cached read (see
// SetCacheTTL) short-circuits the resolver dispatch entirely.
func (r *Registry) Read(ctx context.Context, file refdoc.FileDescriptor) ([]byte, error) {
	key := file.URL.Canonical()
	if data, ok := r.cached(key); ok {
		return data, nil
	}

	r.mu.RLock()
	candidates := make([]Resolver, 0, len(r.resolvers))
	for _, res := range r.resolvers {
		if res.CanRead(file) {
			candidates = append(candidates, res)
		}
	}
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return nil, &referrors.UnmatchedResolverError{URL: file.URL.String()}
	}

	var lastErr error
	for _, res := range candidates {
		data, err := res.Read(ctx, file)
		if err == nil {
			r.store(key, data)
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r *Registry) cached(key string) ([]byte, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if r.cacheTTL < 0 {
		return nil, false
	}
	entry, ok := r.cache[key]
	if !ok {
		return nil, false
	}
	if r.cacheTTL > 0 && time.Since(entry.fetchTime) >= r.cacheTTL {
		delete(r.cache, key)
		return nil, false
	}
	return entry.data, true
}

func (r *Registry) store(key string, data []byte) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if r.cacheTTL < 0 {
		return
	}
	r.cache[key] = &cacheEntry{data: data, fetchTime: time.Now()}
}
