// metrics.go: point-in-time cache metrics snapshot
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// Metrics provides a consistent snapshot of cache performance.
// Counters are process-lifetime and monotonically increasing; gauges
// reflect the live store at the moment of the snapshot. Snapshots are
// taken under the store lock, so no counter is read torn mid-update.
type Metrics struct {
	// Hits is the number of cache hits
	Hits uint64

	// Misses is the number of cache misses, including expired lookups
	Misses uint64

	// Sets is the number of successful set operations
	Sets uint64

	// Deletes is the number of successful delete operations
	Deletes uint64

	// Evictions is the number of entries evicted over capacity
	Evictions uint64

	// Expirations is the number of entries removed by TTL, lazy or swept
	Expirations uint64

	// Invalidations is the number of entries removed by pattern invalidation
	Invalidations uint64

	// Entries is the current number of live entries
	Entries int

	// MemoryBytes is the current summed size estimate of live entries
	MemoryBytes int64

	// Capacity is the maximum number of entries the cache can hold
	Capacity int

	// MemoryCapacity is the memory budget in bytes
	MemoryCapacity int64
}

// HitRate returns hits / (hits + misses) in the range [0, 1].
// Returns 0.0 if no lookups have been performed yet.
func (m Metrics) HitRate() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}
