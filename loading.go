// loading.go: GetOrLoad cache-aside helpers with singleflight deduplication
//
// Concurrent GetOrLoad calls for the same missing key execute the loader
// once and share its result, preventing cache stampedes on expensive
// recomputation (file reads, prompt assembly, provider calls).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import "context"

// GetOrLoad returns the value from cache, or loads it using the provided
// loader function. If multiple goroutines call GetOrLoad for the same
// missing key concurrently, only one loader executes.
//
// A successfully loaded value is cached with the cache's default TTL.
// Loader errors are returned as-is and are NOT cached. A loader panic is
// recovered into a XANTHOS_PANIC_RECOVERED error. Failing to cache the
// loaded value (e.g. it exceeds the memory budget) is logged and the value
// is still returned: the caller decides whether to proceed without caching.
func (c *lruCache) GetOrLoad(key string, loader func() ([]byte, error)) ([]byte, error) {
	if key == "" {
		return nil, NewErrEmptyKey("GetOrLoad")
	}

	if value, found := c.Get(key); found {
		return value, nil
	}

	if loader == nil {
		return nil, NewErrInvalidLoader(key)
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have filled the cache while we queued.
		if value, found := c.Get(key); found {
			return value, nil
		}
		value, err := runLoader(key, loader)
		if err != nil {
			return nil, err
		}
		if setErr := c.Set(key, value); setErr != nil {
			c.logger.Warn("loaded value not cached", "key", key, "error", setErr)
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// GetOrLoadWithContext is like GetOrLoad but stops waiting when the
// context is cancelled. The loader receives the context for its own
// cancellation control; an in-flight load keeps running for the benefit of
// other waiters even when this caller gives up.
func (c *lruCache) GetOrLoadWithContext(ctx context.Context, key string, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if key == "" {
		return nil, NewErrEmptyKey("GetOrLoadWithContext")
	}

	if value, found := c.Get(key); found {
		return value, nil
	}

	if loader == nil {
		return nil, NewErrInvalidLoader(key)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		if value, found := c.Get(key); found {
			return value, nil
		}
		value, err := runLoader(key, func() ([]byte, error) { return loader(ctx) })
		if err != nil {
			return nil, err
		}
		if setErr := c.Set(key, value); setErr != nil {
			c.logger.Warn("loaded value not cached", "key", key, "error", setErr)
		}
		return value, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runLoader executes a loader with panic recovery.
func runLoader(key string, loader func() ([]byte, error)) (value []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = NewErrPanicRecovered("GetOrLoad:"+key, r)
		}
	}()
	return loader()
}
