package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MemoryLimitBytes caps the bytes held by blob caches sharing the
	// controller. Without a limit usage is only tracked.
	MemoryLimitBytes int64

	// MaxConcurrentFetches caps snapshot fetches in flight across all
	// operations.
	MaxConcurrentFetches int64

	// FetchesPerSecond caps how quickly new fetches may start.
	FetchesPerSecond float64

	// FetchBurst is the token bucket size for FetchesPerSecond.
	// Defaults to 1.
	FetchBurst int
}

// Usage is a point-in-time view of a Controller.
type Usage struct {
	CachedBytes   int64
	ActiveFetches int64
}

// Controller shares cache memory and fetch capacity between operations.
//
// A nil *Controller is valid and imposes no limits.
type Controller struct {
	cfg Config

	cached atomic.Int64

	fetchSlots *semaphore.Weighted // nil if unbounded
	fetchRate  *rate.Limiter       // nil if unlimited
	fetching   atomic.Int64
}

// NewController creates a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentFetches > 0 {
		c.fetchSlots = semaphore.NewWeighted(cfg.MaxConcurrentFetches)
	}
	if cfg.FetchesPerSecond > 0 {
		c.fetchRate = rate.NewLimiter(rate.Limit(cfg.FetchesPerSecond), max(cfg.FetchBurst, 1))
	}
	return c
}

// Config returns the limits the controller was built with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// ReserveCache charges n cached bytes. It never blocks: when the memory
// limit would be exceeded nothing is charged and false is returned, and
// the caller should skip caching.
func (c *Controller) ReserveCache(n int64) bool {
	if c == nil || n <= 0 {
		return true
	}
	limit := c.cfg.MemoryLimitBytes
	for {
		cur := c.cached.Load()
		if limit > 0 && cur+n > limit {
			return false
		}
		if c.cached.CompareAndSwap(cur, cur+n) {
			return true
		}
	}
}

// ReleaseCache returns n bytes charged by ReserveCache.
func (c *Controller) ReleaseCache(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.cached.Add(-n)
}

// AcquireFetch waits for the fetch rate limit and then for a free fetch
// slot. Every successful call must be paired with ReleaseFetch.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.fetchRate != nil {
		if err := c.fetchRate.Wait(ctx); err != nil {
			return err
		}
	}
	if c.fetchSlots != nil {
		if err := c.fetchSlots.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.fetching.Add(1)
	return nil
}

// ReleaseFetch frees a fetch slot.
func (c *Controller) ReleaseFetch() {
	if c == nil {
		return
	}
	if c.fetchSlots != nil {
		c.fetchSlots.Release(1)
	}
	c.fetching.Add(-1)
}

// Usage reports current cache bytes and fetches in flight.
func (c *Controller) Usage() Usage {
	if c == nil {
		return Usage{}
	}
	return Usage{
		CachedBytes:   c.cached.Load(),
		ActiveFetches: c.fetching.Load(),
	}
}
