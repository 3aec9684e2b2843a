// cache.go: core LRU cache with entry-count and memory bounds
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheEntry is one live key with its payload and bookkeeping.
// Entries form an intrusive doubly-linked list ordered by recency:
// head is most-recently-used, tail is the eviction victim.
type cacheEntry struct {
	key            string
	value          []byte
	sizeBytes      int64
	createdAt      int64 // nanoseconds since epoch
	lastAccessedAt int64 // updated on every successful Get
	expireAt       int64 // createdAt + resolved TTL

	prev, next *cacheEntry
}

// lruCache implements Cache with a map index plus an intrusive LRU list,
// giving O(1) promotion on access and O(1) victim selection on eviction.
//
// A single mutex guards the store, the LRU order, the namespace index and
// all metrics, so Snapshot always observes a consistent state. Get mutates
// recency order, so there is no useful read-only path to split out.
type lruCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	head    *cacheEntry // most recently used
	tail    *cacheEntry // least recently used

	// nsIndex buckets keys by the segment before the first ':' so that
	// prefix-style invalidation patterns scan one namespace, not the
	// whole store.
	nsIndex map[string]map[string]*cacheEntry

	memoryBytes int64

	// lifetime counters, guarded by mu, never reset
	hits          uint64
	misses        uint64
	sets          uint64
	deletes       uint64
	evictions     uint64
	expirations   uint64
	invalidations uint64

	// immutable after construction
	maxEntries     int
	maxMemoryBytes int64
	sweepBatchSize int

	// hot-reloadable through HotConfig
	defaultTTLNanos atomic.Int64

	timeProvider TimeProvider
	logger       Logger
	collector    MetricsCollector
	onEvict      func(key string, value []byte)
	onExpire     func(key string, value []byte)

	group singleflight.Group

	closed      bool
	sweepCancel context.CancelFunc
	sweepDone   sync.WaitGroup
	sweepReset  chan int64 // new interval in nanoseconds
}

// NewCache creates a cache from the given configuration and starts its
// background expiration sweeper. The returned error is a XANTHOS_INVALID_*
// configuration error when a cap or duration is negative.
func NewCache(config Config) (Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &lruCache{
		entries:        make(map[string]*cacheEntry),
		nsIndex:        make(map[string]map[string]*cacheEntry),
		maxEntries:     config.MaxEntries,
		maxMemoryBytes: config.MaxMemoryBytes,
		sweepBatchSize: config.SweepBatchSize,
		timeProvider:   config.TimeProvider,
		logger:         config.Logger,
		collector:      config.MetricsCollector,
		onEvict:        config.OnEvict,
		onExpire:       config.OnExpire,
		sweepReset:     make(chan int64, 1),
	}
	c.defaultTTLNanos.Store(int64(config.DefaultTTL))

	ctx, cancel := context.WithCancel(context.Background())
	c.sweepCancel = cancel
	c.sweepDone.Add(1)
	go c.sweepLoop(ctx, int64(config.SweepInterval))

	c.logger.Debug("cache created",
		"max_entries", config.MaxEntries,
		"max_memory_bytes", config.MaxMemoryBytes,
		"default_ttl", config.DefaultTTL,
		"sweep_interval", config.SweepInterval)

	return c, nil
}

// entrySize is the deterministic size estimate charged against the memory
// budget: payload plus key plus a fixed bookkeeping overhead.
func entrySize(key string, value []byte) int64 {
	return entryOverhead + int64(len(key)) + int64(len(value))
}

// Set stores a key-value pair using the cache's default TTL.
func (c *lruCache) Set(key string, value []byte) error {
	return c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores a key-value pair with an entry-specific TTL.
// A ttl <= 0 falls back to the cache default. Inserting marks the entry
// most-recently-used and evicts least-recently-used entries until both the
// entry cap and the memory budget hold.
func (c *lruCache) SetWithTTL(key string, value []byte, ttl time.Duration) error {
	start := c.timeProvider.Now()

	if key == "" {
		return NewErrEmptyKey("Set")
	}

	size := entrySize(key, value)
	if size > c.maxMemoryBytes {
		return NewErrEntryTooLarge(key, size, c.maxMemoryBytes)
	}

	ttlNanos := int64(ttl)
	if ttlNanos <= 0 {
		ttlNanos = c.defaultTTLNanos.Load()
	}

	// The store never aliases caller memory.
	buf := make([]byte, len(value))
	copy(buf, value)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return NewErrCacheClosed("Set")
	}

	now := c.timeProvider.Now()

	if e, ok := c.entries[key]; ok {
		// Replace semantics: fresh createdAt and TTL, like a new entry.
		c.memoryBytes += size - e.sizeBytes
		e.value = buf
		e.sizeBytes = size
		e.createdAt = now
		e.lastAccessedAt = now
		e.expireAt = now + ttlNanos
		c.promoteLocked(e)
	} else {
		e := &cacheEntry{
			key:            key,
			value:          buf,
			sizeBytes:      size,
			createdAt:      now,
			lastAccessedAt: now,
			expireAt:       now + ttlNanos,
		}
		c.entries[key] = e
		c.attachFrontLocked(e)
		c.indexLocked(e)
		c.memoryBytes += size
	}
	c.sets++

	evicted := c.evictUntilFitLocked()
	c.mu.Unlock()

	for _, victim := range evicted {
		c.collector.RecordEviction()
		if c.onEvict != nil {
			c.onEvict(victim.key, victim.value)
		}
	}
	c.collector.RecordSet(c.timeProvider.Now() - start)
	return nil
}

// Get retrieves a value from the cache. A present but expired entry is
// purged on the spot and reported as a miss. On a hit the entry becomes
// most-recently-used and the returned slice is a copy the caller owns.
func (c *lruCache) Get(key string) ([]byte, bool) {
	start := c.timeProvider.Now()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		c.mu.Unlock()
		c.collector.RecordGet(c.timeProvider.Now()-start, false)
		return nil, false
	}

	now := c.timeProvider.Now()
	if now >= e.expireAt {
		c.removeEntryLocked(e)
		c.expirations++
		c.misses++
		c.mu.Unlock()

		c.collector.RecordExpiration()
		if c.onExpire != nil {
			c.onExpire(e.key, e.value)
		}
		c.collector.RecordGet(c.timeProvider.Now()-start, false)
		return nil, false
	}

	e.lastAccessedAt = now
	c.promoteLocked(e)
	c.hits++

	out := make([]byte, len(e.value))
	copy(out, e.value)
	c.mu.Unlock()

	c.collector.RecordGet(c.timeProvider.Now()-start, true)
	return out, true
}

// Has checks key existence without promoting the entry or touching the
// hit/miss counters. Expired entries report false but are left for the
// next Get or sweep to purge.
func (c *lruCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	return c.timeProvider.Now() < e.expireAt
}

// Delete removes an entry. Returns whether it existed.
func (c *lruCache) Delete(key string) bool {
	start := c.timeProvider.Now()

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		c.removeEntryLocked(e)
		c.deletes++
	}
	c.mu.Unlock()

	c.collector.RecordDelete(c.timeProvider.Now() - start)
	return ok
}

// Len returns the current number of entries.
func (c *lruCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *lruCache) Capacity() int {
	return c.maxEntries
}

// MemoryBytes returns the summed size estimate of live entries.
func (c *lruCache) MemoryBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memoryBytes
}

// MemoryCapacity returns the memory budget in bytes.
func (c *lruCache) MemoryCapacity() int64 {
	return c.maxMemoryBytes
}

// Clear removes all entries. Lifetime counters are preserved: metrics are
// never reset implicitly.
func (c *lruCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.nsIndex = make(map[string]map[string]*cacheEntry)
	c.head = nil
	c.tail = nil
	c.memoryBytes = 0
	c.mu.Unlock()
}

// Snapshot returns a consistent point-in-time view of cache metrics.
func (c *lruCache) Snapshot() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Metrics{
		Hits:           c.hits,
		Misses:         c.misses,
		Sets:           c.sets,
		Deletes:        c.deletes,
		Evictions:      c.evictions,
		Expirations:    c.expirations,
		Invalidations:  c.invalidations,
		Entries:        len(c.entries),
		MemoryBytes:    c.memoryBytes,
		Capacity:       c.maxEntries,
		MemoryCapacity: c.maxMemoryBytes,
	}
}

// Close stops the background sweeper cooperatively and releases all
// entries. Safe to call more than once.
func (c *lruCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.sweepCancel()
	c.sweepDone.Wait()

	c.Clear()
	c.logger.Debug("cache closed")
	return nil
}

// setDefaultTTL swaps the default TTL applied to future sets.
// Live entries keep the TTL they were stored with.
func (c *lruCache) setDefaultTTL(ttlNanos int64) {
	if ttlNanos > 0 {
		c.defaultTTLNanos.Store(ttlNanos)
	}
}

// evictUntilFitLocked removes least-recently-used entries until both the
// entry cap and the memory budget hold, returning the victims so callbacks
// and metrics can run outside the lock. The most-recently-used entry is
// never a victim: a just-inserted entry that fits the budget on its own
// always survives.
func (c *lruCache) evictUntilFitLocked() []*cacheEntry {
	var evicted []*cacheEntry
	for (len(c.entries) > c.maxEntries || c.memoryBytes > c.maxMemoryBytes) && c.tail != nil && c.tail != c.head {
		victim := c.tail
		c.removeEntryLocked(victim)
		c.evictions++
		evicted = append(evicted, victim)
	}
	return evicted
}

// removeEntryLocked detaches an entry from the map, the LRU list and the
// namespace index, and updates the memory gauge.
func (c *lruCache) removeEntryLocked(e *cacheEntry) {
	delete(c.entries, e.key)
	c.detachLocked(e)
	c.unindexLocked(e)
	c.memoryBytes -= e.sizeBytes
}

// promoteLocked marks an entry most-recently-used.
func (c *lruCache) promoteLocked(e *cacheEntry) {
	if c.head == e {
		return
	}
	c.detachLocked(e)
	c.attachFrontLocked(e)
}

// attachFrontLocked links an entry at the head of the LRU list.
func (c *lruCache) attachFrontLocked(e *cacheEntry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// detachLocked unlinks an entry from the LRU list.
func (c *lruCache) detachLocked(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else if c.head == e {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else if c.tail == e {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

// namespaceOf returns the key segment before the first ':', or the whole
// key when it has no namespace separator.
func namespaceOf(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}

func (c *lruCache) indexLocked(e *cacheEntry) {
	ns := namespaceOf(e.key)
	bucket, ok := c.nsIndex[ns]
	if !ok {
		bucket = make(map[string]*cacheEntry)
		c.nsIndex[ns] = bucket
	}
	bucket[e.key] = e
}

func (c *lruCache) unindexLocked(e *cacheEntry) {
	ns := namespaceOf(e.key)
	if bucket, ok := c.nsIndex[ns]; ok {
		delete(bucket, e.key)
		if len(bucket) == 0 {
			delete(c.nsIndex, ns)
		}
	}
}

// Compile-time interface check
var _ Cache = (*lruCache)(nil)
