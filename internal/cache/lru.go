package cache

import (
	"sync"

	"github.com/hupe1980/modelcompat/resource"
)

// Stats counts cache outcomes since creation.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// node is one cached blob in the recency ring.
type node struct {
	name       string
	data       []byte
	prev, next *node
}

// LRU holds blob contents up to a byte budget and drops the least recently
// read blob first. Cached slices are shared and must not be modified.
type LRU struct {
	mu     sync.Mutex
	budget int64
	used   int64
	byName map[string]*node
	ring   node // sentinel; ring.next is the most recent blob
	rc     *resource.Controller
	stats  Stats
}

// NewLRU creates a cache holding at most budget bytes.
// A non-nil rc is charged for every cached byte.
func NewLRU(budget int64, rc *resource.Controller) *LRU {
	c := &LRU{
		budget: budget,
		byName: make(map[string]*node),
		rc:     rc,
	}
	c.ring.prev = &c.ring
	c.ring.next = &c.ring
	return c
}

// Get returns the cached contents of name.
func (c *LRU) Get(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.byName[name]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.unlink(n)
	c.pushFront(n)
	return n.data, true
}

// Set caches data under name, replacing any previous contents. Blobs larger
// than the budget, or refused by the resource controller, are not cached.
func (c *LRU) Set(name string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.byName[name]; ok {
		c.drop(old)
	}

	size := int64(len(data))
	if size > c.budget {
		return
	}
	for c.used+size > c.budget && c.ring.prev != &c.ring {
		c.drop(c.ring.prev)
		c.stats.Evictions++
	}
	// Evicted bytes are released first so the controller sees them.
	if c.rc != nil && !c.rc.ReserveCache(size) {
		return
	}

	n := &node{name: name, data: data}
	c.byName[name] = n
	c.pushFront(n)
	c.used += size
}

// Remove forgets name.
func (c *LRU) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.byName[name]; ok {
		c.drop(n)
	}
}

// Len returns the number of cached blobs.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byName)
}

// Size returns the cached bytes.
func (c *LRU) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Stats returns a copy of the counters.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *LRU) pushFront(n *node) {
	n.prev = &c.ring
	n.next = c.ring.next
	c.ring.next.prev = n
	c.ring.next = n
}

func (c *LRU) unlink(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (c *LRU) drop(n *node) {
	c.unlink(n)
	delete(c.byName, n.name)
	size := int64(len(n.data))
	c.used -= size
	if c.rc != nil {
		c.rc.ReleaseCache(size)
	}
}
