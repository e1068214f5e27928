package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultRefreshWindow = 300 * time.Second
	DefaultFetchTimeout  = 15 * time.Second

	// DefaultListenerTimeout bounds one round of listener notifications.
	DefaultListenerTimeout = 5 * time.Second
)

// RateCacheMetrics receives cache outcomes per cache key.
type RateCacheMetrics interface {
	CacheHit(key string)
	CacheStale(key string)
	CacheMiss(key string)
	FetchResult(key string, ok bool, took time.Duration)
}

type noopRateCacheMetrics struct{}

func (noopRateCacheMetrics) CacheHit(string)                         {}
func (noopRateCacheMetrics) CacheStale(string)                       {}
func (noopRateCacheMetrics) CacheMiss(string)                        {}
func (noopRateCacheMetrics) FetchResult(string, bool, time.Duration) {}

// cacheEntry is guarded by RateCache.mu. done is closed when the fetch that
// set refreshing completes.
type cacheEntry struct {
	value      domain.RateQuote
	hasValue   bool
	expiresAt  time.Time
	refreshing bool
	done       chan struct{}
}

// RateCache serves quotes with stale-while-revalidate semantics. At most one
// fetch per cache key is in flight, and a failed fetch never replaces a
// previously fetched quote.
type RateCache struct {
	fetcher         domain.RateFetcher
	window          time.Duration
	fetchTimeout    time.Duration
	listenerTimeout time.Duration
	now             func() time.Time
	logger          *zap.Logger
	metrics         RateCacheMetrics
	listeners       []domain.RateListener

	mu      sync.Mutex
	entries map[string]*cacheEntry

	wg sync.WaitGroup
}

type RateCacheOption func(*RateCache)

func WithRefreshWindow(window time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if window > 0 {
			c.window = window
		}
	}
}

func WithFetchTimeout(timeout time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if timeout > 0 {
			c.fetchTimeout = timeout
		}
	}
}

func WithListenerTimeout(timeout time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if timeout > 0 {
			c.listenerTimeout = timeout
		}
	}
}

func WithCacheClock(now func() time.Time) RateCacheOption {
	return func(c *RateCache) {
		c.now = now
	}
}

func WithCacheLogger(logger *zap.Logger) RateCacheOption {
	return func(c *RateCache) {
		c.logger = logger
	}
}

func WithCacheMetrics(metrics RateCacheMetrics) RateCacheOption {
	return func(c *RateCache) {
		c.metrics = metrics
	}
}

func WithRateListener(l domain.RateListener) RateCacheOption {
	return func(c *RateCache) {
		c.listeners = append(c.listeners, l)
	}
}

func NewRateCache(fetcher domain.RateFetcher, opts ...RateCacheOption) *RateCache {
	c := &RateCache{
		fetcher:         fetcher,
		window:          DefaultRefreshWindow,
		fetchTimeout:    DefaultFetchTimeout,
		listenerTimeout: DefaultListenerTimeout,
		now:             time.Now,
		logger:          zap.NewNop(),
		metrics:         noopRateCacheMetrics{},
		entries:         make(map[string]*cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get never returns an error. Before the first successful fetch for the
// query it returns domain.RateNotAvailable.
func (c *RateCache) Get(ctx context.Context, query domain.RateQuery) domain.RateSnapshot {
	key := query.CacheKey()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}

	switch {
	case e.hasValue && c.now().Before(e.expiresAt):
		quote := e.value
		c.mu.Unlock()
		c.metrics.CacheHit(key)
		return available(quote)

	case e.hasValue:
		quote := e.value
		start := !e.refreshing
		if start {
			c.beginFetch(e)
			c.wg.Add(1)
		}
		c.mu.Unlock()
		c.metrics.CacheStale(key)

		if start {
			go func() {
				defer c.wg.Done()
				c.fetch(context.WithoutCancel(ctx), query, e)
			}()
		}
		return available(quote)

	case e.refreshing:
		// Cold start already in flight for this key.
		done := e.done
		c.mu.Unlock()
		c.metrics.CacheMiss(key)
		select {
		case <-done:
		case <-ctx.Done():
			return domain.RateNotAvailable
		}
		return c.current(e)

	default:
		c.beginFetch(e)
		c.mu.Unlock()
		c.metrics.CacheMiss(key)

		c.fetch(ctx, query, e)
		return c.current(e)
	}
}

// Wait blocks until background refreshes and listener notifications started
// so far have finished.
func (c *RateCache) Wait() {
	c.wg.Wait()
}

// beginFetch must be called with c.mu held.
func (c *RateCache) beginFetch(e *cacheEntry) {
	e.refreshing = true
	e.done = make(chan struct{})
}

func (c *RateCache) fetch(ctx context.Context, query domain.RateQuery, e *cacheEntry) {
	key := query.CacheKey()

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	begin := time.Now()
	quote, err := c.fetcher.Fetch(fetchCtx, query)
	c.metrics.FetchResult(key, err == nil, time.Since(begin))

	c.mu.Lock()
	if err == nil {
		e.value = quote
		e.hasValue = true
		e.expiresAt = c.now().Add(c.window)
	}
	hadValue := e.hasValue
	e.refreshing = false
	close(e.done)
	c.mu.Unlock()

	if err != nil {
		if hadValue {
			c.logger.Warn("rate refresh failed, keeping last known quote", zap.String("key", key), zap.Error(err))
		} else {
			c.logger.Warn("rate unavailable", zap.String("key", key), zap.Error(err))
		}
		return
	}

	c.logger.Debug("rate cached",
		zap.String("key", key),
		zap.String("price", quote.Price.String()),
		zap.Duration("window", c.window),
	)
	c.notify(ctx, query, quote)
}

// notify runs the listeners in the background so that a slow listener never
// delays the reader that triggered the fetch.
func (c *RateCache) notify(ctx context.Context, query domain.RateQuery, quote domain.RateQuote) {
	if len(c.listeners) == 0 {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.listenerTimeout)
		defer cancel()
		for _, l := range c.listeners {
			l.OnRateUpdated(notifyCtx, query, quote)
		}
	}()
}

func (c *RateCache) current(e *cacheEntry) domain.RateSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !e.hasValue {
		return domain.RateNotAvailable
	}
	return available(e.value)
}

func available(quote domain.RateQuote) domain.RateSnapshot {
	return domain.RateSnapshot{Quote: quote, Available: true}
}
