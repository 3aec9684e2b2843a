// cache_generic.go: type-safe typed cache API over the byte-payload core
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache provides a type-safe view over a byte-payload Cache using
// JSON as the serialized form. Serialization doubles as the copy-on-read
// discipline: a decoded value shares no memory with the store, and the
// size charged against the memory budget is the byte length of the
// serialized form.
//
// Example:
//
//	cache, _ := xanthos.NewTypedCache[AgentProfile](xanthos.Config{
//		MaxEntries: 1_000,
//		DefaultTTL: 30 * time.Minute,
//	})
//	cache.Set("agent_profile:engineer:default", profile)
//	profile, found, _ := cache.Get("agent_profile:engineer:default")
type TypedCache[V any] struct {
	inner Cache
}

// NewTypedCache creates a typed cache with its own underlying store.
func NewTypedCache[V any](config Config) (*TypedCache[V], error) {
	inner, err := NewCache(config)
	if err != nil {
		return nil, err
	}
	return &TypedCache[V]{inner: inner}, nil
}

// WrapTyped builds a typed view over an existing cache, sharing its store,
// metrics and sweeper. Useful when several typed views share the process
// singleton.
func WrapTyped[V any](inner Cache) *TypedCache[V] {
	return &TypedCache[V]{inner: inner}
}

// Inner exposes the underlying byte-payload cache.
func (c *TypedCache[V]) Inner() Cache {
	return c.inner
}

// Set serializes and stores a value with the cache's default TTL.
func (c *TypedCache[V]) Set(key string, value V) error {
	return c.SetWithTTL(key, value, 0)
}

// SetWithTTL serializes and stores a value with an entry-specific TTL.
func (c *TypedCache[V]) SetWithTTL(key string, value V, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.inner.SetWithTTL(key, payload, ttl)
}

// Get retrieves and decodes a value. A stored payload that no longer
// decodes into V (the type changed between writer and reader) is dropped
// and reported as a miss.
func (c *TypedCache[V]) Get(key string) (V, bool) {
	var value V
	payload, found := c.inner.Get(key)
	if !found {
		return value, false
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		c.inner.Delete(key)
		var zero V
		return zero, false
	}
	return value, true
}

// GetOrLoad returns the decoded value from cache, or loads, serializes and
// caches it. Concurrent calls for the same missing key execute the loader
// once.
func (c *TypedCache[V]) GetOrLoad(key string, loader func() (V, error)) (V, error) {
	payload, err := c.inner.GetOrLoad(key, func() ([]byte, error) {
		value, err := loader()
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	var value V
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

// GetOrLoadWithContext is like GetOrLoad but stops waiting when the
// context is cancelled.
func (c *TypedCache[V]) GetOrLoadWithContext(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	payload, err := c.inner.GetOrLoadWithContext(ctx, key, func(ctx context.Context) ([]byte, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	var value V
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

// Delete removes an entry. Returns whether it existed.
func (c *TypedCache[V]) Delete(key string) bool {
	return c.inner.Delete(key)
}

// InvalidatePattern removes entries whose keys match the glob pattern.
func (c *TypedCache[V]) InvalidatePattern(pattern string) int {
	return c.inner.InvalidatePattern(pattern)
}

// Snapshot returns the underlying cache's metrics.
func (c *TypedCache[V]) Snapshot() Metrics {
	return c.inner.Snapshot()
}
