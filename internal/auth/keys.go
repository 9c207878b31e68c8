package auth

import (
	"sync"

	"nameplate/internal/domain"
)

// Keys is the in-memory view of the api_keys table: key -> requests per interval.
type Keys struct {
	mu    sync.RWMutex
	cache map[string]int
}

func NewKeys() *Keys { return &Keys{} }

// Replace swaps the whole key set.
func (k *Keys) Replace(m map[string]int) {
	cache := make(map[string]int, len(m))
	for key, limit := range m {
		cache[key] = limit
	}
	k.mu.Lock()
	k.cache = cache
	k.mu.Unlock()
}

// Ready reports whether keys were loaded at least once.
func (k *Keys) Ready() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cache != nil
}

// Validate returns ErrTokenStoreNotReady before the first load and
// ErrInvalidAPIKey for unknown keys.
func (k *Keys) Validate(key string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.cache == nil {
		return domain.ErrTokenStoreNotReady
	}
	if _, ok := k.cache[key]; !ok {
		return domain.ErrInvalidAPIKey
	}
	return nil
}

// RateLimit returns the per-interval limit of key; 0 for unknown keys means no
// per-key limit.
func (k *Keys) RateLimit(key string) int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cache[key]
}
