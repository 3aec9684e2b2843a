// pattern.go: glob-style key matching and pattern invalidation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "strings"

// matchGlob reports whether key matches pattern, where '*' matches any run
// of characters (including ':' and '/') and '?' matches exactly one.
// Iterative two-pointer matching with single-star backtracking; no escapes.
// path.Match is deliberately not used: its '*' refuses to cross '/', and
// cache keys may carry file paths.
func matchGlob(pattern, key string) bool {
	var p, k int
	star := -1
	mark := 0

	for k < len(key) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == key[k]):
			p++
			k++
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = k
			p++
		case star >= 0:
			// Backtrack: let the last '*' swallow one more character.
			mark++
			k = mark
			p = star + 1
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

// hasWildcard reports whether the pattern contains any glob metacharacter.
func hasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}

// patternNamespace returns the literal namespace a pattern is confined to,
// and whether such confinement exists. "agent_profile:engineer:*" is
// confined to "agent_profile"; "*:engineer" and "agent?:x" are not.
func patternNamespace(pattern string) (string, bool) {
	i := strings.IndexByte(pattern, ':')
	if i < 0 {
		return "", false
	}
	ns := pattern[:i]
	if hasWildcard(ns) {
		return "", false
	}
	return ns, true
}

// InvalidatePattern removes every live entry whose key matches the glob
// pattern and returns the count removed. Callers use it to drop a logical
// namespace (e.g. all cached entries for one agent type) without tracking
// individual keys. A pattern matching nothing returns 0.
//
// Patterns confined to a literal namespace prefix scan only that
// namespace's bucket of the secondary index instead of the whole store.
func (c *lruCache) InvalidatePattern(pattern string) int {
	if pattern == "" {
		return 0
	}

	c.mu.Lock()

	// Exact-key fast path keeps single invalidations O(1).
	if !hasWildcard(pattern) {
		e, ok := c.entries[pattern]
		if ok {
			c.removeEntryLocked(e)
			c.invalidations++
		}
		c.mu.Unlock()
		if ok {
			c.collector.RecordInvalidation(1)
			return 1
		}
		return 0
	}

	var matched []*cacheEntry
	if ns, ok := patternNamespace(pattern); ok {
		for _, e := range c.nsIndex[ns] {
			if matchGlob(pattern, e.key) {
				matched = append(matched, e)
			}
		}
	} else {
		for _, e := range c.entries {
			if matchGlob(pattern, e.key) {
				matched = append(matched, e)
			}
		}
	}

	for _, e := range matched {
		c.removeEntryLocked(e)
	}
	c.invalidations += uint64(len(matched))
	c.mu.Unlock()

	if len(matched) > 0 {
		c.collector.RecordInvalidation(len(matched))
		c.logger.Debug("pattern invalidated", "pattern", pattern, "removed", len(matched))
	}
	return len(matched)
}

// Keys returns the keys of live entries matching the glob pattern,
// without promoting entries or updating counters.
func (c *lruCache) Keys(pattern string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keys []string
	if ns, ok := patternNamespace(pattern); ok && hasWildcard(pattern) {
		for k := range c.nsIndex[ns] {
			if matchGlob(pattern, k) {
				keys = append(keys, k)
			}
		}
		return keys
	}
	for k := range c.entries {
		if matchGlob(pattern, k) {
			keys = append(keys, k)
		}
	}
	return keys
}
