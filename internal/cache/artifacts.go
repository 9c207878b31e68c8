package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"nameplate/internal/domain"
	"nameplate/internal/infra/logging"
)

const keyPrefix = "artifact:"

// Artifacts caches rendered artifact bodies in Redis. A nil *Artifacts is a
// disabled cache.
type Artifacts struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewArtifacts wraps rdb. A non-positive ttl becomes one minute.
func NewArtifacts(rdb *redis.Client, ttl time.Duration) *Artifacts {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Artifacts{rdb: rdb, ttl: ttl}
}

// Key identifies an artifact of kind rendered from the normalized order.
func Key(order *domain.OrderRequest, kind string) string {
	h := sha256.New()
	// Format is a request option, not part of the rendered content.
	o := *order
	o.Format = ""
	_ = json.NewEncoder(h).Encode(o)
	h.Write([]byte(kind))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached body, or nil on a miss. Redis failures are logged and
// reported as misses.
func (a *Artifacts) Get(ctx context.Context, key string) []byte {
	if a == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	b, err := a.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		logging.Warn("Redis read failed", "error", err)
		return nil
	}
	logging.Debug("Artifact cache hit", "key", key)
	return b
}

// Set stores body under key. Failures are logged only.
func (a *Artifacts) Set(ctx context.Context, key string, body []byte) {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := a.rdb.Set(ctx, key, body, a.ttl).Err(); err != nil {
		logging.Warn("Redis write failed", "error", err)
	}
}
