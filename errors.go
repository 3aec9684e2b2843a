// errors.go: structured error handling for xanthos cache operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all cache operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for Xanthos cache operations
const (
	// Configuration errors
	ErrCodeInvalidConfig        errors.ErrorCode = "XANTHOS_INVALID_CONFIG"
	ErrCodeInvalidMaxEntries    errors.ErrorCode = "XANTHOS_INVALID_MAX_ENTRIES"
	ErrCodeInvalidMaxMemory     errors.ErrorCode = "XANTHOS_INVALID_MAX_MEMORY"
	ErrCodeInvalidTTL           errors.ErrorCode = "XANTHOS_INVALID_TTL"
	ErrCodeInvalidSweepInterval errors.ErrorCode = "XANTHOS_INVALID_SWEEP_INTERVAL"

	// Operation errors
	ErrCodeEntryTooLarge errors.ErrorCode = "XANTHOS_ENTRY_TOO_LARGE"
	ErrCodeEmptyKey      errors.ErrorCode = "XANTHOS_EMPTY_KEY"
	ErrCodeCacheClosed   errors.ErrorCode = "XANTHOS_CACHE_CLOSED"

	// Loader errors
	ErrCodeInvalidLoader  errors.ErrorCode = "XANTHOS_INVALID_LOADER"
	ErrCodePanicRecovered errors.ErrorCode = "XANTHOS_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidMaxEntries    = "invalid max entries: must be greater than 0"
	msgInvalidMaxMemory     = "invalid max memory bytes: must be greater than 0"
	msgInvalidTTL           = "invalid default TTL: must be greater than 0"
	msgInvalidSweepInterval = "invalid sweep interval: must be greater than 0"
	msgEntryTooLarge        = "entry size exceeds cache memory budget"
	msgEmptyKey             = "key cannot be empty"
	msgCacheClosed          = "cache is closed"
	msgInvalidLoader        = "loader function cannot be nil"
	msgPanicRecovered       = "panic recovered in cache operation"
)

// NewErrInvalidMaxEntries creates an error for a non-positive entry cap
func NewErrInvalidMaxEntries(n int) error {
	return errors.NewWithContext(ErrCodeInvalidMaxEntries, msgInvalidMaxEntries, map[string]interface{}{
		"provided_max_entries": n,
		"minimum_required":     1,
	})
}

// NewErrInvalidMaxMemory creates an error for a non-positive memory budget
func NewErrInvalidMaxMemory(n int64) error {
	return errors.NewWithContext(ErrCodeInvalidMaxMemory, msgInvalidMaxMemory, map[string]interface{}{
		"provided_max_memory_bytes": n,
		"minimum_required":          1,
	})
}

// NewErrInvalidTTL creates an error for a negative default TTL
func NewErrInvalidTTL(ttl interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidTTL, msgInvalidTTL, map[string]interface{}{
		"provided_ttl": ttl,
	})
}

// NewErrInvalidSweepInterval creates an error for a negative sweep interval
func NewErrInvalidSweepInterval(interval interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidSweepInterval, msgInvalidSweepInterval, map[string]interface{}{
		"provided_interval": interval,
	})
}

// NewErrEntryTooLarge creates an error when a single entry cannot fit the
// memory budget even with every other entry evicted
func NewErrEntryTooLarge(key string, sizeBytes, budgetBytes int64) error {
	return errors.NewWithContext(ErrCodeEntryTooLarge, msgEntryTooLarge, map[string]interface{}{
		"key":              key,
		"entry_size_bytes": sizeBytes,
		"max_memory_bytes": budgetBytes,
	})
}

// NewErrEmptyKey creates an error when key is empty
func NewErrEmptyKey(operation string) error {
	return errors.NewWithField(ErrCodeEmptyKey, msgEmptyKey, "operation", operation)
}

// NewErrCacheClosed creates an error when an operation hits a closed cache
func NewErrCacheClosed(operation string) error {
	return errors.NewWithField(ErrCodeCacheClosed, msgCacheClosed, "operation", operation)
}

// NewErrInvalidLoader creates an error when loader function is nil
func NewErrInvalidLoader(key string) error {
	return errors.NewWithField(ErrCodeInvalidLoader, msgInvalidLoader, "key", key)
}

// NewErrPanicRecovered creates an error when a panic is recovered
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// IsEntryTooLarge checks if error reports an oversized entry
func IsEntryTooLarge(err error) bool {
	return errors.HasCode(err, ErrCodeEntryTooLarge)
}

// IsEmptyKey checks if error is an empty key error
func IsEmptyKey(err error) bool {
	return errors.HasCode(err, ErrCodeEmptyKey)
}

// IsCacheClosed checks if error reports a closed cache
func IsCacheClosed(err error) bool {
	return errors.HasCode(err, ErrCodeCacheClosed)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidMaxEntries ||
			code == ErrCodeInvalidMaxMemory || code == ErrCodeInvalidTTL ||
			code == ErrCodeInvalidSweepInterval
	}
	return false
}

// IsLoaderError checks if error originates from GetOrLoad plumbing
func IsLoaderError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidLoader || code == ErrCodePanicRecovered
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var xerr *errors.Error
	if goerrors.As(err, &xerr) {
		return xerr.Context
	}
	return nil
}
