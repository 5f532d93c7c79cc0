package blobstore

import (
	"context"

	"github.com/hupe1980/modelcompat/internal/cache"
	"github.com/hupe1980/modelcompat/resource"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheCapacity is used when NewCachingStore is given capacity <= 0.
const DefaultCacheCapacity = 64 << 20

// CachingStore wraps a BlobStore and caches whole blobs in memory.
//
// Catalog and snapshot blobs are immutable, so a cached copy stays valid
// until the blob is overwritten or deleted through this store. Concurrent
// opens of the same uncached blob share a single read of the inner store.
// Failed reads are never cached.
type CachingStore struct {
	inner BlobStore
	cache *cache.LRU
	group singleflight.Group
}

// NewCachingStore creates a new CachingStore.
// If rc is non-nil, cached bytes are accounted against its memory limit.
func NewCachingStore(inner BlobStore, capacity int64, rc *resource.Controller) *CachingStore {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity, rc),
	}
}

// Open returns the cached blob, reading it from the inner store on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(name); ok {
		return &memoryBlob{data: data}, nil
	}

	// The shared read outlives any single caller. Each caller still stops
	// waiting when its own context ends.
	readCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(name, func() (any, error) {
		data, err := ReadAll(readCtx, s.inner, name)
		if err != nil {
			return nil, err
		}
		s.cache.Set(name, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return &memoryBlob{data: res.Val.([]byte)}, nil
	}
}

// Put writes through to the inner store and invalidates the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete deletes from the inner store and invalidates the cached copy.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	st := s.cache.Stats()
	return st.Hits, st.Misses
}
