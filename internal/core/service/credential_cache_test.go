package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

func newTestCache() *CredentialCache {
	return NewCredentialCache(NewPasswordCodec(), "admin", "user", "test", zerolog.Nop())
}

func TestCredentialCache_GetBeforeInitialize(t *testing.T) {
	cache := newTestCache()

	if cache.IsInitialized() {
		t.Fatal("cache must not report initialized before Initialize")
	}
	if cache.Size() != 0 {
		t.Fatalf("expected size 0, got %d", cache.Size())
	}
	if _, err := cache.Get(CacheKeyAdmin); !errors.Is(err, domain.ErrCacheNotInitialized) {
		t.Fatalf("expected ErrCacheNotInitialized, got %v", err)
	}
}

func TestCredentialCache_InitializeAndGet(t *testing.T) {
	cache := newTestCache()
	if err := cache.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if !cache.IsInitialized() {
		t.Fatal("cache must report initialized")
	}
	if cache.Size() != 3 {
		t.Fatalf("expected 3 entries, got %d", cache.Size())
	}

	codec := NewPasswordCodec()
	for key, raw := range map[string]string{
		CacheKeyAdmin: "admin",
		CacheKeyUser:  "user",
		CacheKeyTest:  "test",
	} {
		hashed, err := cache.Get(key)
		if err != nil {
			t.Fatalf("Get(%s): %v", key, err)
		}
		if hashed == raw {
			t.Fatalf("cached value for %s must be hashed", key)
		}
		if !codec.Verify(raw, hashed) {
			t.Fatalf("cached hash for %s does not verify", key)
		}
	}
}

func TestCredentialCache_UnknownKey(t *testing.T) {
	cache := newTestCache()
	if err := cache.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, err := cache.Get("default-guest"); !errors.Is(err, domain.ErrUnknownCacheKey) {
		t.Fatalf("expected ErrUnknownCacheKey, got %v", err)
	}
}

func TestCredentialCache_InitializeIsOnce(t *testing.T) {
	cache := newTestCache()
	if err := cache.Initialize(); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	first, _ := cache.Get(CacheKeyAdmin)

	if err := cache.Initialize(); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	second, _ := cache.Get(CacheKeyAdmin)
	if first != second {
		t.Fatal("re-initialization must not recompute entries")
	}
}

type failingCodec struct{}

func (failingCodec) Hash(string) (string, error) { return "", fmt.Errorf("kdf unavailable") }
func (failingCodec) Verify(string, string) bool  { return false }

func TestCredentialCache_InitializeFailureIsFatal(t *testing.T) {
	cache := NewCredentialCache(failingCodec{}, "admin", "user", "test", zerolog.Nop())
	if err := cache.Initialize(); err == nil {
		t.Fatal("expected Initialize to fail when hashing fails")
	}
	if cache.IsInitialized() {
		t.Fatal("a failed warm-up must leave the cache uninitialized")
	}
	if _, err := cache.Get(CacheKeyAdmin); !errors.Is(err, domain.ErrCacheNotInitialized) {
		t.Fatalf("reads after failed warm-up must fail closed, got %v", err)
	}
}

// flakyCodec fails its first hash calls and then behaves normally,
// standing in for a transient KDF resource problem at startup.
type flakyCodec struct {
	failures int
	real     *PasswordCodec
}

func (c *flakyCodec) Hash(raw string) (string, error) {
	if c.failures > 0 {
		c.failures--
		return "", fmt.Errorf("kdf unavailable")
	}
	return c.real.Hash(raw)
}

func (c *flakyCodec) Verify(raw, encoded string) bool {
	return c.real.Verify(raw, encoded)
}

func TestCredentialCache_InitializeRetriesAfterFailure(t *testing.T) {
	cache := NewCredentialCache(&flakyCodec{failures: 1, real: NewPasswordCodec()},
		"admin", "user", "test", zerolog.Nop())

	if err := cache.Initialize(); err == nil {
		t.Fatal("first warm-up must report the hash failure")
	}
	if cache.IsInitialized() {
		t.Fatal("a failed warm-up must leave the cache uninitialized")
	}

	// The failure must not be latched: a later attempt can still succeed.
	if err := cache.Initialize(); err != nil {
		t.Fatalf("retry after a transient failure: %v", err)
	}
	if !cache.IsInitialized() {
		t.Fatal("cache must report initialized after the successful retry")
	}
	if hashed, err := cache.Get(CacheKeyAdmin); err != nil || hashed == "" {
		t.Fatalf("Get after retry: %q, %v", hashed, err)
	}
}

func TestCredentialCache_ConcurrentReadersDuringInitialize(t *testing.T) {
	cache := newTestCache()

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			// Readers must see either "not initialized" or a fully
			// populated cache, never a partial one.
			hashed, err := cache.Get(CacheKeyTest)
			if err == nil && hashed == "" {
				t.Error("observed an empty entry in an initialized cache")
			}
			if err != nil && !errors.Is(err, domain.ErrCacheNotInitialized) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		if err := cache.Initialize(); err != nil {
			t.Errorf("Initialize: %v", err)
		}
	}()

	close(start)
	wg.Wait()

	if got := cache.Size(); got != 3 {
		t.Fatalf("expected 3 entries after the race, got %d", got)
	}
}
