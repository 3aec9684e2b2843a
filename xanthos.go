// Package xanthos provides a shared in-process prompt/result cache.
//
// Xanthos is a memory-bounded, time-aware LRU cache designed to be shared
// by many concurrent callers that want to avoid redundant expensive
// recomputation (file reads, prompt assembly, provider calls).
//
// Example usage:
//
//	cache, err := xanthos.NewCache(xanthos.Config{
//		MaxEntries:     1_000,
//		MaxMemoryBytes: 100 << 20,
//		DefaultTTL:     30 * time.Minute,
//	})
//
//	cache.Set("agent_profile:engineer:default", payload)
//	value, found := cache.Get("agent_profile:engineer:default")
//	cache.InvalidatePattern("agent_profile:engineer:*")
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "time"

const (
	// Version of Xanthos cache library
	Version = "v0.1.0-dev"

	// DefaultMaxEntries is the default maximum number of entries
	DefaultMaxEntries = 1_000

	// DefaultMaxMemoryBytes is the default memory budget for summed entry sizes
	DefaultMaxMemoryBytes = 100 << 20 // 100 MiB

	// DefaultTTL is the default time-to-live applied when a set omits one
	DefaultTTL = 30 * time.Minute

	// DefaultSweepInterval is how often the background sweeper purges expired entries
	DefaultSweepInterval = 5 * time.Minute

	// DefaultSweepBatchSize is how many entries a sweep pass inspects per lock acquisition
	DefaultSweepBatchSize = 256

	// entryOverhead is the fixed per-entry bookkeeping charge (entry struct,
	// map slot, LRU links, namespace index slot) added to len(key)+len(value)
	// by the size estimate. The estimate is deterministic and monotonic in
	// payload size; it is not an exact heap measurement.
	entryOverhead = 160
)
