// instance.go: process-wide shared cache instance
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync"

// The shared instance is guarded by a mutex rather than sync.Once so that
// a failed first construction (invalid configuration) does not poison the
// process: the error surfaces to the caller attempting initialization and
// a later call with a valid configuration can still construct the cache.
// Exactly one instance is ever created, and no caller can observe a
// partially constructed one.
var (
	instanceMu sync.Mutex
	instance   Cache
)

// GetInstance returns the process-wide shared cache, constructing it from
// the given configuration on first call. Subsequent calls return the same
// instance and ignore a differing configuration: construction-time
// configuration is final for the process.
//
// Collaborators that can take a cache as a dependency should prefer
// NewCache and explicit injection; GetInstance exists for the many callers
// that share one cache per process without wiring.
func GetInstance(config Config) (Cache, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return instance, nil
	}

	c, err := NewCache(config)
	if err != nil {
		return nil, err
	}
	instance = c
	return instance, nil
}

// Default returns the process-wide shared cache with default configuration.
// Equivalent to GetInstance(Config{}).
func Default() (Cache, error) {
	return GetInstance(Config{})
}
