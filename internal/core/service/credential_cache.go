package service

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/core/domain"
	"github.com/accessdesk/user-portal/internal/core/ports"
)

// Logical keys of the fixed default-account password set.
const (
	CacheKeyAdmin = "default-admin"
	CacheKeyUser  = "default-user"
	CacheKeyTest  = "default-test"
)

// CredentialCache holds the hashed default-account passwords, computed
// exactly once before the process accepts traffic. The map is written once
// under Initialize and never mutated afterwards, so concurrent reads need
// no locking: readers either observe "not initialized" and fail closed, or
// the fully populated cache. A partially populated cache is never visible
// because the ready flag is set only after every entry is in place.
type CredentialCache struct {
	codec ports.Codec
	log   zerolog.Logger

	raw map[string]string // key -> raw default password

	mu      sync.Mutex
	ready   atomic.Bool
	entries map[string]string
}

// NewCredentialCache builds an uninitialized cache for the given default
// raw passwords.
func NewCredentialCache(codec ports.Codec, adminPassword, userPassword, testPassword string, log zerolog.Logger) *CredentialCache {
	return &CredentialCache{
		codec: codec,
		log:   log,
		raw: map[string]string{
			CacheKeyAdmin: adminPassword,
			CacheKeyUser:  userPassword,
			CacheKeyTest:  testPassword,
		},
	}
}

// Initialize computes and stores the hashed values. A hash failure is
// returned and leaves the cache uninitialized; a later call runs the
// warm-up again. Once warm-up has succeeded, further calls are no-ops and
// never recompute entries.
func (c *CredentialCache) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		return nil
	}

	entries := make(map[string]string, len(c.raw))
	for key, raw := range c.raw {
		hashed, err := c.codec.Hash(raw)
		if err != nil {
			return fmt.Errorf("warm credential cache for %s: %w", key, err)
		}
		entries[key] = hashed
	}
	c.entries = entries
	c.ready.Store(true)
	c.log.Info().Int("entries", len(entries)).Msg("credential cache warmed")
	return nil
}

// Get returns the hashed value for one of the fixed keys. It fails with
// domain.ErrCacheNotInitialized before warm-up and domain.ErrUnknownCacheKey
// for a key outside the fixed set.
func (c *CredentialCache) Get(key string) (string, error) {
	if !c.ready.Load() {
		return "", fmt.Errorf("get %q: %w", key, domain.ErrCacheNotInitialized)
	}
	hashed, ok := c.entries[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, domain.ErrUnknownCacheKey)
	}
	return hashed, nil
}

// IsInitialized reports whether warm-up has completed. Used by readiness
// probes and as the Bootstrapper precondition gate.
func (c *CredentialCache) IsInitialized() bool {
	return c.ready.Load()
}

// Size returns the number of cached entries; zero before warm-up.
func (c *CredentialCache) Size() int {
	if !c.ready.Load() {
		return 0
	}
	return len(c.entries)
}
