// sweeper.go: periodic expiration sweeping in bounded batches
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"context"
	"time"
)

// sweepLoop is the single long-lived sweeper goroutine. It wakes on a
// ticker, purges expired entries, and exits when the cache is closed.
// HotConfig can retune the interval through sweepReset without restarting
// the goroutine.
func (c *lruCache) sweepLoop(ctx context.Context, intervalNanos int64) {
	defer c.sweepDone.Done()

	ticker := time.NewTicker(time.Duration(intervalNanos))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-c.sweepReset:
			ticker.Reset(time.Duration(d))
		case <-ticker.C:
			if n := c.sweepExpired(); n > 0 {
				c.logger.Debug("sweep purged expired entries", "count", n)
			}
		}
	}
}

// sweepExpired walks all live keys and purges the expired ones. The key
// set is snapshotted up front and processed in bounded batches so the
// store lock is never held for a full pass: foreground Get/Set calls are
// blocked for at most one batch.
func (c *lruCache) sweepExpired() int {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	purged := 0
	for start := 0; start < len(keys); start += c.sweepBatchSize {
		end := start + c.sweepBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		var expired []*cacheEntry
		c.mu.Lock()
		now := c.timeProvider.Now()
		for _, k := range keys[start:end] {
			// An entry may have been deleted or replaced since the
			// snapshot; re-check under the lock.
			e, ok := c.entries[k]
			if !ok {
				continue
			}
			if now >= e.expireAt {
				c.removeEntryLocked(e)
				c.expirations++
				expired = append(expired, e)
			}
		}
		c.mu.Unlock()

		for _, e := range expired {
			c.collector.RecordExpiration()
			if c.onExpire != nil {
				c.onExpire(e.key, e.value)
			}
		}
		purged += len(expired)
	}
	return purged
}

// ExpireNow synchronously runs one sweep pass and returns how many entries
// it purged. Useful when a caller wants expired memory released without
// waiting for the next tick.
func (c *lruCache) ExpireNow() int {
	return c.sweepExpired()
}

// setSweepInterval retunes the running sweeper. Non-positive intervals are
// ignored. The signal is dropped if a retune is already pending.
func (c *lruCache) setSweepInterval(intervalNanos int64) {
	if intervalNanos <= 0 {
		return
	}
	select {
	case c.sweepReset <- intervalNanos:
	default:
	}
}
