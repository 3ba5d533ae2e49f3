/*
Package fetch is a keyed read-through cache with stale-while-revalidate.

PURPOSE:
  The dashboard reads the same snapshots over and over. The backend is the
  source of truth, but hitting it for every render is wasteful and makes
  the UI feel slow. This cache gives each key three states by age:

    age < fresh             serve the cached value, no fetch
    fresh <= age < maxAge   serve the cached value, refresh in background
    age >= maxAge (or cold) block on a fetch

  Concurrent callers for the same key share one in-flight fetch.

FAILURE POLICY:
  A background refresh that fails keeps the last good value and logs a
  warning; the next caller inside the stale window still gets data. A
  blocking fetch that fails returns the error to every waiting caller.

SEE ALSO:
  - api/handlers.go: Snapshot and SKU-list reads go through this cache
*/
package fetch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// refreshTimeout bounds a background refresh so an unresponsive backend
// can't pin goroutines forever.
const refreshTimeout = 30 * time.Second

// Fetcher loads the value for a key from the source of truth.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Source records how a Get was satisfied.
type Source string

const (
	SourceFresh Source = "fresh" // served inside the fresh window
	SourceStale Source = "stale" // served past fresh, refresh started
	SourceFetch Source = "fetch" // fetched (cold key or expired entry)
)

// Result is a served value plus how it was served.
type Result[T any] struct {
	Data   T
	Source Source
}

// Cache is a keyed read-through cache. Safe for concurrent use.
type Cache[T any] struct {
	fresh  time.Duration
	maxAge time.Duration
	log    *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry[T]
}

type entry[T any] struct {
	value     T
	fetchErr  error
	fetchedAt time.Time
	hasValue  bool

	// inflight is non-nil while a fetch for this key runs; it is closed
	// when the fetch completes. Waiters block on it instead of fetching.
	inflight chan struct{}
}

// New creates a cache. fresh must be <= maxAge; a nil logger is replaced
// with a no-op one.
func New[T any](fresh, maxAge time.Duration, log *zap.Logger) *Cache[T] {
	if log == nil {
		log = zap.NewNop()
	}
	if maxAge < fresh {
		maxAge = fresh
	}
	return &Cache[T]{
		fresh:   fresh,
		maxAge:  maxAge,
		log:     log,
		now:     time.Now,
		entries: make(map[string]*entry[T]),
	}
}

// Get returns the value for key, fetching through f as the cache state
// requires.
func (c *Cache[T]) Get(ctx context.Context, key string, f Fetcher[T]) (Result[T], error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{}
		c.entries[key] = e
	}

	if e.hasValue {
		age := c.now().Sub(e.fetchedAt)
		if age < c.fresh {
			res := Result[T]{Data: e.value, Source: SourceFresh}
			c.mu.Unlock()
			return res, nil
		}
		if age < c.maxAge {
			if e.inflight == nil {
				c.startRefresh(key, e, f)
			}
			res := Result[T]{Data: e.value, Source: SourceStale}
			c.mu.Unlock()
			return res, nil
		}
	}

	// Cold or expired: join the in-flight fetch if there is one.
	if e.inflight != nil {
		done := e.inflight
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			var zero Result[T]
			return zero, ctx.Err()
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if e.hasValue && e.fetchErr == nil {
			return Result[T]{Data: e.value, Source: SourceFetch}, nil
		}
		var zero Result[T]
		return zero, e.fetchErr
	}

	// Lead caller: fetch with the lock released.
	done := make(chan struct{})
	e.inflight = done
	c.mu.Unlock()

	value, err := f(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle(e, value, err)
	if err != nil {
		var zero Result[T]
		return zero, err
	}
	return Result[T]{Data: value, Source: SourceFetch}, nil
}

// Invalidate drops one key. The next Get blocks on a fetch.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix drops every key with the given prefix. Used after
// mutations whose effect spans derived keys (one SKU, many locations).
func (c *Cache[T]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
}

// startRefresh kicks a background fetch for a stale entry. Caller holds
// the lock.
func (c *Cache[T]) startRefresh(key string, e *entry[T], f Fetcher[T]) {
	done := make(chan struct{})
	e.inflight = done

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		value, err := f(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			// Keep the last good value; the entry stays stale and the
			// next Get inside the window retries the refresh.
			e.inflight = nil
			close(done)
			c.log.Warn("background refresh failed",
				zap.String("key", key),
				zap.Error(err))
			return
		}
		c.settle(e, value, nil)
	}()
}

// settle records a fetch outcome and releases waiters. Caller holds the
// lock.
func (c *Cache[T]) settle(e *entry[T], value T, err error) {
	if err == nil {
		e.value = value
		e.hasValue = true
		e.fetchedAt = c.now()
	}
	e.fetchErr = err
	if e.inflight != nil {
		close(e.inflight)
		e.inflight = nil
	}
}
