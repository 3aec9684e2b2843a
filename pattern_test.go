// pattern_test.go: glob matching and pattern invalidation tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sort"
	"testing"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"agent_profile:engineer:*", "agent_profile:engineer:default", true},
		{"agent_profile:engineer:*", "agent_profile:engineer:", true},
		{"agent_profile:engineer:*", "agent_profile:qa:default", false},
		{"agent_profile:*", "agent_profile:engineer:default", true},
		{"*", "anything", true},
		{"*", "", true},
		{"exact", "exact", true},
		{"exact", "exactly", false},
		{"key?", "key1", true},
		{"key?", "key12", false},
		{"*:md", "agent:engineer:md", true},
		{"*:md", "agent:engineer:json", false},
		{"a*b*c", "aXXbYYc", true},
		{"a*b*c", "abc", true},
		{"a*b*c", "acb", false},
		{"prompt:*:cache", "prompt:a/b/c:cache", true}, // '*' crosses '/'
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		if got := matchGlob(tt.pattern, tt.key); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.key, got, tt.want)
		}
	}
}

func TestPatternNamespace(t *testing.T) {
	tests := []struct {
		pattern string
		ns      string
		ok      bool
	}{
		{"agent_profile:engineer:*", "agent_profile", true},
		{"agent_profile:*", "agent_profile", true},
		{"*:engineer", "", false},
		{"agent?:x", "", false},
		{"no_separator*", "", false},
	}

	for _, tt := range tests {
		ns, ok := patternNamespace(tt.pattern)
		if ns != tt.ns || ok != tt.ok {
			t.Errorf("patternNamespace(%q) = (%q, %v), want (%q, %v)", tt.pattern, ns, ok, tt.ns, tt.ok)
		}
	}
}

func TestCache_InvalidatePattern(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 100})

	cache.Set("agent_profile:engineer:default", []byte("1"))
	cache.Set("agent_profile:engineer:strict", []byte("2"))
	cache.Set("agent_profile:qa:default", []byte("3"))
	cache.Set("agent_prompt:engineer", []byte("4"))

	removed := cache.InvalidatePattern("agent_profile:engineer:*")
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	// All and only matching keys are gone
	for _, key := range []string{"agent_profile:engineer:default", "agent_profile:engineer:strict"} {
		if cache.Has(key) {
			t.Errorf("expected %s to be invalidated", key)
		}
	}
	for _, key := range []string{"agent_profile:qa:default", "agent_prompt:engineer"} {
		if !cache.Has(key) {
			t.Errorf("expected %s to be left intact", key)
		}
	}

	snap := cache.Snapshot()
	if snap.Invalidations != 2 {
		t.Errorf("expected 2 invalidations, got %d", snap.Invalidations)
	}
}

func TestCache_InvalidatePattern_NoMatch(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 100})

	cache.Set("key", []byte("value"))

	if removed := cache.InvalidatePattern("other:*"); removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
	if removed := cache.InvalidatePattern(""); removed != 0 {
		t.Errorf("expected 0 removed for empty pattern, got %d", removed)
	}
	if !cache.Has("key") {
		t.Error("non-matching invalidation must not remove entries")
	}
}

func TestCache_InvalidatePattern_ExactKey(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 100})

	cache.Set("agent_registry_discovery", []byte("value"))

	if removed := cache.InvalidatePattern("agent_registry_discovery"); removed != 1 {
		t.Errorf("expected exact-key invalidation to remove 1, got %d", removed)
	}
	if removed := cache.InvalidatePattern("agent_registry_discovery"); removed != 0 {
		t.Errorf("expected repeat invalidation to remove 0, got %d", removed)
	}
}

func TestCache_InvalidatePattern_CrossNamespaceWildcard(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 100})

	cache.Set("agent_profile:engineer:md", []byte("1"))
	cache.Set("agent_prompt:engineer:md", []byte("2"))
	cache.Set("agent_prompt:engineer:json", []byte("3"))

	// Wildcard in the namespace segment forces a full-store scan
	if removed := cache.InvalidatePattern("*:engineer:md"); removed != 2 {
		t.Errorf("expected 2 removed across namespaces, got %d", removed)
	}
	if !cache.Has("agent_prompt:engineer:json") {
		t.Error("expected non-matching key to survive")
	}
}

func TestCache_Keys(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 100})

	cache.Set("agent_profile:engineer:default", []byte("1"))
	cache.Set("agent_profile:qa:default", []byte("2"))
	cache.Set("other", []byte("3"))

	keys := cache.Keys("agent_profile:*")
	sort.Strings(keys)
	want := []string{"agent_profile:engineer:default", "agent_profile:qa:default"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("expected key %q, got %q", want[i], keys[i])
		}
	}

	// Keys is read-only: no counter movement
	snap := cache.Snapshot()
	if snap.Hits != 0 || snap.Misses != 0 {
		t.Error("Keys must not touch hit/miss counters")
	}
}

func TestCache_InvalidatePattern_RemovesFromLRU(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 3})

	cache.Set("ns:a", []byte("1"))
	cache.Set("ns:b", []byte("2"))
	cache.Set("other", []byte("3"))

	cache.InvalidatePattern("ns:*")

	// The freed slots must be reusable without evicting survivors
	cache.Set("new1", []byte("4"))
	cache.Set("new2", []byte("5"))

	if !cache.Has("other") {
		t.Error("invalidation corrupted LRU bookkeeping")
	}
	if cache.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", cache.Len())
	}
}
