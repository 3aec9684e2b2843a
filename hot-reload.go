// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig provides dynamic configuration reload capabilities using Argus.
// It watches a configuration file and applies the runtime-tunable cache
// settings when changes are detected.
//
// Only DefaultTTL and SweepInterval are applied live. MaxEntries and
// MaxMemoryBytes are final at construction: changing them would require
// rebuilding the store, so new values are logged and ignored.
type HotConfig struct {
	cache    Cache
	watcher  *argus.Watcher
	logger   Logger
	mu       sync.RWMutex
	current  HotSettings
	OnReload func(oldSettings, newSettings HotSettings)
}

// HotSettings are the runtime-tunable cache parameters.
type HotSettings struct {
	// DefaultTTL applies to sets issued after the reload.
	DefaultTTL time.Duration

	// SweepInterval retunes the running background sweeper.
	SweepInterval time.Duration
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after settings are successfully applied.
	OnReload func(oldSettings, newSettings HotSettings)

	// Logger for hot reload operations. If nil, NoOpLogger is used.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration for a cache.
// Call Start to begin watching.
//
// Example configuration file (YAML):
//
//	cache:
//	  default_ttl: "30m"
//	  sweep_interval: "5m"
//
// Supported configuration keys:
//   - cache.default_ttl (duration string): TTL applied when a set omits one
//   - cache.sweep_interval (duration string): background sweep period
func NewHotConfig(cache Cache, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig{
		cache:    cache,
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		current: HotSettings{
			DefaultTTL:    DefaultTTL,
			SweepInterval: DefaultSweepInterval,
		},
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil // Already started
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// Settings returns the currently applied settings (thread-safe).
func (hc *HotConfig) Settings() HotSettings {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.current
}

// handleConfigChange is called by Argus when the watched file changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldSettings := hc.current
	newSettings := hc.parseSettings(configData, oldSettings)
	hc.current = newSettings
	hc.mu.Unlock()

	hc.applyChanges(oldSettings, newSettings)

	if hc.OnReload != nil {
		hc.OnReload(oldSettings, newSettings)
	}
}

// parseDuration extracts a time.Duration from a string value.
func parseDuration(value interface{}) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(str); err == nil && d > 0 {
			return d, true
		}
	}
	return 0, false
}

// parseSettings extracts runtime-tunable settings from Argus config data.
// Keys that are absent or malformed keep their previous values.
func (hc *HotConfig) parseSettings(data map[string]interface{}, previous HotSettings) HotSettings {
	settings := previous

	// Argus might nest the cache section or provide keys directly.
	cacheSection, ok := data["cache"].(map[string]interface{})
	if !ok {
		cacheSection = data
	}

	if ttl, ok := parseDuration(cacheSection["default_ttl"]); ok {
		settings.DefaultTTL = ttl
	}

	if interval, ok := parseDuration(cacheSection["sweep_interval"]); ok {
		settings.SweepInterval = interval
	}

	if _, present := cacheSection["max_entries"]; present {
		hc.logger.Warn("max_entries is fixed at construction; reload ignored")
	}
	if _, present := cacheSection["max_memory_bytes"]; present {
		hc.logger.Warn("max_memory_bytes is fixed at construction; reload ignored")
	}

	return settings
}

// applyChanges applies new settings to the running cache.
func (hc *HotConfig) applyChanges(old, updated HotSettings) {
	c, ok := hc.cache.(*lruCache)
	if !ok {
		return
	}

	if updated.DefaultTTL != old.DefaultTTL {
		c.setDefaultTTL(int64(updated.DefaultTTL))
		hc.logger.Info("default TTL reloaded", "old", old.DefaultTTL, "new", updated.DefaultTTL)
	}

	if updated.SweepInterval != old.SweepInterval {
		c.setSweepInterval(int64(updated.SweepInterval))
		hc.logger.Info("sweep interval reloaded", "old", old.SweepInterval, "new", updated.SweepInterval)
	}
}
