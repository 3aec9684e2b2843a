// config.go: configuration for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"time"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for the cache.
// The configuration is final at construction: only DefaultTTL and
// SweepInterval can later be adjusted through HotConfig.
type Config struct {
	// MaxEntries is the maximum number of entries the cache can hold.
	// Must be > 0. Zero selects DefaultMaxEntries; negative is an error.
	MaxEntries int

	// MaxMemoryBytes is the cap on the summed size estimate of all entries.
	// Must be > 0. Zero selects DefaultMaxMemoryBytes; negative is an error.
	// Both caps are enforced simultaneously: whichever is breached first
	// triggers eviction.
	MaxMemoryBytes int64

	// DefaultTTL is applied when a set omits an explicit TTL.
	// Must be > 0. Zero selects DefaultTTL; negative is an error.
	DefaultTTL time.Duration

	// SweepInterval is how often the background sweeper purges expired
	// entries. Zero selects DefaultSweepInterval; negative is an error.
	SweepInterval time.Duration

	// SweepBatchSize is how many entries a sweep pass inspects per lock
	// acquisition, bounding how long the sweeper can block callers.
	// Zero selects DefaultSweepBatchSize.
	SweepBatchSize int

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for TTL calculations.
	// If nil, a default implementation is used. Default: system time.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	// Use this to integrate with Prometheus, DataDog, StatsD, or other
	// monitoring systems.
	MetricsCollector MetricsCollector

	// OnEvict is called after an entry is evicted over capacity.
	// Called outside the store lock; must be fast and non-blocking.
	OnEvict func(key string, value []byte)

	// OnExpire is called after an entry is removed by TTL.
	// Called outside the store lock; must be fast and non-blocking.
	OnExpire func(key string, value []byte)
}

// Validate checks configuration parameters and applies defaults.
// Zero values mean "use the default"; explicitly negative caps or
// durations are configuration errors that fail cache construction.
//
// This method is automatically called by NewCache and GetInstance, so you
// typically don't need to call it manually. It's provided as a public API
// if you want to inspect the normalized configuration before creating a
// cache.
//
// Default values applied:
//   - MaxEntries: DefaultMaxEntries (1,000) if 0
//   - MaxMemoryBytes: DefaultMaxMemoryBytes (100 MiB) if 0
//   - DefaultTTL: DefaultTTL (30m) if 0
//   - SweepInterval: DefaultSweepInterval (5m) if 0
//   - SweepBatchSize: DefaultSweepBatchSize (256) if <= 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	if c.MaxEntries < 0 {
		return NewErrInvalidMaxEntries(c.MaxEntries)
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = DefaultMaxEntries
	}

	if c.MaxMemoryBytes < 0 {
		return NewErrInvalidMaxMemory(c.MaxMemoryBytes)
	}
	if c.MaxMemoryBytes == 0 {
		c.MaxMemoryBytes = DefaultMaxMemoryBytes
	}

	if c.DefaultTTL < 0 {
		return NewErrInvalidTTL(c.DefaultTTL)
	}
	if c.DefaultTTL == 0 {
		c.DefaultTTL = DefaultTTL
	}

	if c.SweepInterval < 0 {
		return NewErrInvalidSweepInterval(c.SweepInterval)
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = DefaultSweepInterval
	}

	if c.SweepBatchSize <= 0 {
		c.SweepBatchSize = DefaultSweepBatchSize
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxEntries:       DefaultMaxEntries,
		MaxMemoryBytes:   DefaultMaxMemoryBytes,
		DefaultTTL:       DefaultTTL,
		SweepInterval:    DefaultSweepInterval,
		SweepBatchSize:   DefaultSweepBatchSize,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access compared to time.Now() with zero
// allocations, which matters on the Get/Set hot path.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
