package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// VectorCache is a small LRU with per-entry TTL used to memoize query
// embeddings. Keys are hashes of the input text so arbitrarily long
// queries stay cheap to index.
type VectorCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List
}

type entry struct {
	key     string
	vec     []float32
	expires time.Time
}

// NewVectorCache creates a cache with the given capacity and default TTL.
// A zero TTL means entries never expire.
func NewVectorCache(capacity int, ttl time.Duration) *VectorCache {
	if capacity <= 0 {
		capacity = 512
	}
	return &VectorCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached embedding for text, if present and fresh.
func (c *VectorCache) Get(text string) ([]float32, bool) {
	key := hashKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*entry)
	if !ent.expires.IsZero() && time.Now().After(ent.expires) {
		c.order.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return ent.vec, true
}

// Set stores the embedding for text, evicting the least recently used
// entry when the cache is full.
func (c *VectorCache) Set(text string, vec []float32) {
	key := hashKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.vec = vec
		ent.expires = c.expiry()
		c.order.MoveToFront(elem)
		return
	}

	if len(c.items) >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			ent := oldest.Value.(*entry)
			c.order.Remove(oldest)
			delete(c.items, ent.key)
		}
	}

	elem := c.order.PushFront(&entry{key: key, vec: vec, expires: c.expiry()})
	c.items[key] = elem
}

// Purge drops all entries.
func (c *VectorCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Len reports the number of live entries.
func (c *VectorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *VectorCache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.ttl)
}

func hashKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
