package openweather

import (
	"sync"

	"github.com/couchcryptid/disaster-watch/internal/domain"
)

// geoEntry is a cached geocoding result.
type geoEntry struct {
	geo   domain.Geo
	place string
}

// geoCache is a simple thread-safe LRU cache for ZIP geocoding results.
type geoCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value geoEntry
	prev  *entry
	next  *entry
}

func newGeoCache(maxEntries int) *geoCache {
	return &geoCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *geoCache) get(key string) (geoEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return geoEntry{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *geoCache) put(key string, value geoEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *geoCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *geoCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *geoCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *geoCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
