// interfaces.go: public interfaces for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"context"
	"time"
)

// Cache represents the shared prompt/result cache interface.
// All methods must be safe for concurrent use. Payloads are opaque byte
// sequences; the cache never inspects their contents. A value returned by
// Get is a copy the caller owns independently: mutating it never affects
// the stored entry.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns a copy of the value and true if found and not expired,
	// nil and false otherwise. An expired entry is purged on the spot.
	Get(key string) (value []byte, found bool)

	// Set stores a key-value pair using the cache's default TTL.
	// Fails with XANTHOS_ENTRY_TOO_LARGE if the single entry's estimated
	// size exceeds the memory budget, leaving the store unchanged.
	Set(key string, value []byte) error

	// SetWithTTL stores a key-value pair with an entry-specific TTL
	// overriding the cache default. ttl <= 0 falls back to the default.
	SetWithTTL(key string, value []byte, ttl time.Duration) error

	// Delete removes an entry from the cache.
	// Returns true if the entry was present and removed.
	// Does not affect hit/miss counters.
	Delete(key string) bool

	// InvalidatePattern removes every live entry whose key matches the
	// glob-style pattern ('*' matches any run of characters, '?' matches
	// exactly one). Returns the number of entries removed; a pattern
	// matching nothing returns 0.
	InvalidatePattern(pattern string) int

	// Keys returns the keys of live entries matching the glob pattern.
	// Read-only: no LRU promotion, no counter updates.
	Keys(pattern string) []string

	// Has checks if a key exists and is not expired, without retrieving
	// the value. Does not promote the entry or touch hit/miss counters.
	Has(key string) bool

	// Len returns the current number of entries in the cache.
	Len() int

	// Capacity returns the maximum number of entries the cache can hold.
	Capacity() int

	// MemoryBytes returns the summed size estimate of all live entries.
	MemoryBytes() int64

	// MemoryCapacity returns the memory budget in bytes.
	MemoryCapacity() int64

	// Clear removes all entries. Lifetime counters (hits, misses,
	// evictions, expirations) are never reset; only the live gauges drop
	// to zero.
	Clear()

	// ExpireNow synchronously purges expired entries and returns how many
	// were removed. This is the same pass the background sweeper runs.
	ExpireNow() int

	// Snapshot returns a consistent point-in-time view of cache metrics.
	Snapshot() Metrics

	// GetOrLoad returns the value from cache, or loads it using the
	// provided loader. Concurrent calls for the same missing key execute
	// the loader once (singleflight). A successfully loaded value is
	// cached with the default TTL; loader errors are not cached.
	GetOrLoad(key string, loader func() ([]byte, error)) ([]byte, error)

	// GetOrLoadWithContext is like GetOrLoad but stops waiting when the
	// context is cancelled. The context is passed to the loader.
	GetOrLoadWithContext(ctx context.Context, key string, loader func(context.Context) ([]byte, error)) ([]byte, error)

	// Close stops the background sweeper cooperatively and releases all
	// entries. Subsequent Set calls fail with XANTHOS_CACHE_CLOSED.
	Close() error
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector defines an interface for collecting cache operation metrics.
// Implementations can send metrics to Prometheus, DataDog, StatsD, or other
// monitoring systems. All methods must be safe for concurrent use and cheap
// enough to sit on the hot path.
type MetricsCollector interface {
	// RecordGet records a Get operation with its latency and hit/miss result.
	RecordGet(latencyNs int64, hit bool)

	// RecordSet records a Set operation with its latency.
	RecordSet(latencyNs int64)

	// RecordDelete records a Delete operation with its latency.
	RecordDelete(latencyNs int64)

	// RecordEviction records a capacity eviction event.
	RecordEviction()

	// RecordExpiration records a TTL-based removal, lazy or swept.
	RecordExpiration()

	// RecordInvalidation records a pattern invalidation with the number
	// of entries it removed.
	RecordInvalidation(removed int)
}

// NoOpMetricsCollector is a metrics collector that does nothing.
// Used as default to avoid nil checks and ensure zero overhead.
type NoOpMetricsCollector struct{}

// RecordGet does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}

// RecordSet does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordSet(latencyNs int64) {}

// RecordDelete does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordDelete(latencyNs int64) {}

// RecordEviction does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordEviction() {}

// RecordExpiration does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordExpiration() {}

// RecordInvalidation does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordInvalidation(removed int) {}
