package gate

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	grantCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gate_grant_cache_hits_total",
		Help: "Grant lookups served from the cache.",
	})
	grantCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gate_grant_cache_misses_total",
		Help: "Grant lookups that went to the underlying resolver.",
	})
)

// GrantResolver loads the grants owned by a subject.
type GrantResolver[U comparable] interface {
	Resolve(ctx context.Context, user U) ([]Grant, error)
}

// ResolverFunc adapts a function to GrantResolver.
type ResolverFunc[U comparable] func(ctx context.Context, user U) ([]Grant, error)

func (f ResolverFunc[U]) Resolve(ctx context.Context, user U) ([]Grant, error) {
	return f(ctx, user)
}

// CachedResolver wraps a GrantResolver with a size-bounded TTL cache.
// This avoids hitting the database on every authorization check.
type CachedResolver[U comparable] struct {
	inner GrantResolver[U]
	cache *expirable.LRU[U, []Grant]
}

// NewCachedResolver wraps inner. size bounds the number of cached subjects,
// ttl is how long grants are cached before re-fetching.
func NewCachedResolver[U comparable](inner GrantResolver[U], size int, ttl time.Duration) *CachedResolver[U] {
	if size <= 0 {
		size = 1024
	}
	return &CachedResolver[U]{
		inner: inner,
		cache: expirable.NewLRU[U, []Grant](size, nil, ttl),
	}
}

// Resolve returns the grants for user, using the cache if available.
func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) ([]Grant, error) {
	if grants, ok := r.cache.Get(user); ok {
		grantCacheHits.Inc()
		return grants, nil
	}
	grantCacheMisses.Inc()
	grants, err := r.inner.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	r.cache.Add(user, grants)
	return grants, nil
}

// Invalidate removes a subject from the cache.
// Call this when the subject's grants change.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.cache.Remove(user)
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver[U]) InvalidateAll() {
	r.cache.Purge()
}

// StaticResolver is a simple in-memory resolver for testing.
type StaticResolver[U comparable] struct {
	mu     sync.RWMutex
	grants map[U][]Grant
}

// NewStaticResolver creates an empty in-memory resolver.
func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{grants: make(map[U][]Grant)}
}

// Set replaces the grants of user.
func (r *StaticResolver[U]) Set(user U, grants ...Grant) {
	r.mu.Lock()
	r.grants[user] = grants
	r.mu.Unlock()
}

func (r *StaticResolver[U]) Resolve(_ context.Context, user U) ([]Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grants[user], nil
}
