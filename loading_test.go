// loading_test.go: GetOrLoad and singleflight tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrLoad_LoadsAndCaches(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 100})

	var calls atomic.Int64
	loader := func() ([]byte, error) {
		calls.Add(1)
		return []byte("loaded"), nil
	}

	value, err := cache.GetOrLoad("key", loader)
	if err != nil {
		t.Fatalf("GetOrLoad failed: %v", err)
	}
	if !bytes.Equal(value, []byte("loaded")) {
		t.Errorf("unexpected value: %q", value)
	}

	// Second call must hit the cache, not the loader.
	value, err = cache.GetOrLoad("key", loader)
	if err != nil {
		t.Fatalf("second GetOrLoad failed: %v", err)
	}
	if !bytes.Equal(value, []byte("loaded")) {
		t.Errorf("unexpected cached value: %q", value)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 loader call, got %d", calls.Load())
	}
}

func TestGetOrLoad_EmptyKey(t *testing.T) {
	cache := newTestCache(t, Config{})

	_, err := cache.GetOrLoad("", func() ([]byte, error) { return nil, nil })
	if !IsEmptyKey(err) {
		t.Errorf("expected empty key error, got %v", err)
	}
}

func TestGetOrLoad_NilLoader(t *testing.T) {
	cache := newTestCache(t, Config{})

	_, err := cache.GetOrLoad("key", nil)
	if !IsLoaderError(err) {
		t.Errorf("expected loader error, got %v", err)
	}

	// A cached key never reaches the loader, nil or not.
	cache.Set("cached", []byte("v"))
	value, err := cache.GetOrLoad("cached", nil)
	if err != nil {
		t.Fatalf("GetOrLoad on cached key failed: %v", err)
	}
	if !bytes.Equal(value, []byte("v")) {
		t.Errorf("unexpected value: %q", value)
	}
}

func TestGetOrLoad_Stampede(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 100})

	var calls atomic.Int64
	gate := make(chan struct{})
	loader := func() ([]byte, error) {
		calls.Add(1)
		<-gate
		return []byte("expensive"), nil
	}

	const goroutines = 16
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cache.GetOrLoad("hot", loader)
		}(i)
	}

	// Let the goroutines pile up behind the single flight, then release.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d failed: %v", i, err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 loader call across %d goroutines, got %d", goroutines, got)
	}
}

func TestGetOrLoad_ErrorNotCached(t *testing.T) {
	cache := newTestCache(t, Config{})

	loadErr := errors.New("backend down")
	_, err := cache.GetOrLoad("key", func() ([]byte, error) { return nil, loadErr })
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if cache.Has("key") {
		t.Error("failed load must not populate the cache")
	}

	// A later load can succeed.
	value, err := cache.GetOrLoad("key", func() ([]byte, error) { return []byte("recovered"), nil })
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !bytes.Equal(value, []byte("recovered")) {
		t.Errorf("unexpected value: %q", value)
	}
}

func TestGetOrLoad_PanicRecovered(t *testing.T) {
	cache := newTestCache(t, Config{})

	_, err := cache.GetOrLoad("key", func() ([]byte, error) { panic("loader bug") })
	if err == nil {
		t.Fatal("expected error from panicking loader")
	}
	if GetErrorCode(err) != ErrCodePanicRecovered {
		t.Errorf("expected panic recovery code, got %v", err)
	}
	if cache.Has("key") {
		t.Error("panicking load must not populate the cache")
	}
}

func TestGetOrLoad_OversizedValueStillReturned(t *testing.T) {
	cache := newTestCache(t, Config{MaxEntries: 10, MaxMemoryBytes: 256})

	big := make([]byte, 1024)
	value, err := cache.GetOrLoad("big", func() ([]byte, error) { return big, nil })
	if err != nil {
		t.Fatalf("GetOrLoad failed: %v", err)
	}
	if len(value) != len(big) {
		t.Errorf("expected the loaded value back, got %d bytes", len(value))
	}
	if cache.Has("big") {
		t.Error("value over the memory budget must not be cached")
	}
}

func TestGetOrLoadWithContext_Cancellation(t *testing.T) {
	cache := newTestCache(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	loader := func(ctx context.Context) ([]byte, error) {
		close(started)
		<-release
		return []byte("late"), nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := cache.GetOrLoadWithContext(ctx, "slow", loader)
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("GetOrLoadWithContext did not return after cancellation")
	}
}

func TestGetOrLoadWithContext_Success(t *testing.T) {
	cache := newTestCache(t, Config{})

	value, err := cache.GetOrLoadWithContext(context.Background(), "key", func(ctx context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	if err != nil {
		t.Fatalf("GetOrLoadWithContext failed: %v", err)
	}
	if !bytes.Equal(value, []byte("ok")) {
		t.Errorf("unexpected value: %q", value)
	}
	if !cache.Has("key") {
		t.Error("loaded value should be cached")
	}
}

func TestGetOrLoadWithContext_AlreadyCancelled(t *testing.T) {
	cache := newTestCache(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.GetOrLoadWithContext(ctx, "key", func(ctx context.Context) ([]byte, error) {
		t.Error("loader must not run with a cancelled context")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
