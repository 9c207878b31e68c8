package auth

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nameplate/internal/config"
	"nameplate/internal/domain"
)

func TestKeys_ValidateAndRateLimit(t *testing.T) {
	k := NewKeys()
	assert.False(t, k.Ready())
	assert.ErrorIs(t, k.Validate("a"), domain.ErrTokenStoreNotReady)

	k.Replace(map[string]int{"a": 5, "b": 10})
	assert.True(t, k.Ready())
	assert.NoError(t, k.Validate("a"))
	assert.Equal(t, 5, k.RateLimit("a"))
	assert.Equal(t, 10, k.RateLimit("b"))
	assert.ErrorIs(t, k.Validate("c"), domain.ErrInvalidAPIKey)
	assert.Equal(t, 0, k.RateLimit("c"))
}

func TestKeys_ReplaceUpdatesCache(t *testing.T) {
	k := NewKeys()
	src := map[string]int{"a": 5, "b": 10}
	k.Replace(src)
	src["b"] = 99
	assert.Equal(t, 10, k.RateLimit("b"), "cache must not alias the input map")

	k.Replace(map[string]int{"a": 7, "c": 12})
	assert.Equal(t, 7, k.RateLimit("a"))
	assert.ErrorIs(t, k.Validate("b"), domain.ErrInvalidAPIKey)
	assert.Equal(t, 12, k.RateLimit("c"))
}

func TestPostgresDSN_BuildsURL(t *testing.T) {
	dsn, err := postgresDSN(config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "nameplate",
		User:     "user",
		Password: "p@ss word",
		SSLMode:  "disable",
	})
	assert.NoError(t, err)

	u, err := url.Parse(dsn)
	assert.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "localhost:5432", u.Host)
	assert.Equal(t, "/nameplate", u.Path)
	assert.Equal(t, "user", u.User.Username())
	pw, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestPostgresDSN_PassthroughAndErrors(t *testing.T) {
	raw := "postgres://u:p@localhost:5432/db?sslmode=disable"
	dsn, err := postgresDSN(config.PostgresConfig{Host: raw})
	assert.NoError(t, err)
	assert.Equal(t, raw, dsn)

	dsn, err = postgresDSN(config.PostgresConfig{Host: "::1", Database: "d", User: "u"})
	assert.NoError(t, err)
	assert.Contains(t, dsn, "[::1]:5432")

	_, err = postgresDSN(config.PostgresConfig{})
	assert.Error(t, err)
	_, err = postgresDSN(config.PostgresConfig{Host: "h"})
	assert.Error(t, err)
	_, err = postgresDSN(config.PostgresConfig{Host: "h", Database: "d"})
	assert.Error(t, err)
}

type fakeRepo struct {
	m   map[string]int
	err error
}

func (r fakeRepo) LoadKeys(context.Context) (map[string]int, error) {
	return r.m, r.err
}

func TestReloader_LoadOnce(t *testing.T) {
	k := NewKeys()
	r := NewReloader(fakeRepo{m: map[string]int{"k": 3}}, k, time.Hour)
	assert.NoError(t, r.LoadOnce(context.Background()))
	assert.Equal(t, 3, k.RateLimit("k"))

	k.Replace(map[string]int{"keep": 7})
	r = NewReloader(fakeRepo{err: errors.New("boom")}, k, time.Hour)
	assert.Error(t, r.LoadOnce(context.Background()))
	assert.Equal(t, 7, k.RateLimit("keep"), "failed load must not replace the cache")
}

type sequenceRepo struct {
	mu      sync.Mutex
	results []fakeRepo
	idx     int
	calls   atomic.Int32
}

func (r *sequenceRepo) LoadKeys(ctx context.Context) (map[string]int, error) {
	r.calls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.results[min(r.idx, len(r.results)-1)]
	r.idx++
	return cur.m, cur.err
}

func TestReloader_StartRefreshesKeys(t *testing.T) {
	k := NewKeys()
	repo := &sequenceRepo{results: []fakeRepo{
		{m: map[string]int{"k": 1}},
		{m: map[string]int{"k": 5}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewReloader(repo, k, 20*time.Millisecond).Start(ctx)

	deadline := time.Now().Add(400 * time.Millisecond)
	for time.Now().Before(deadline) {
		if k.RateLimit("k") == 5 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected reloader to refresh key rate limit to 5, got %d", k.RateLimit("k"))
}

func TestReloader_StartKeepsCacheDuringOutage(t *testing.T) {
	k := NewKeys()
	k.Replace(map[string]int{"keep": 9})
	repo := &sequenceRepo{results: []fakeRepo{{err: errors.New("db unavailable")}}}

	ctx, cancel := context.WithCancel(context.Background())
	NewReloader(repo, k, 20*time.Millisecond).Start(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()

	assert.Equal(t, 9, k.RateLimit("keep"))
	assert.NotZero(t, repo.calls.Load())
}

func testPostgresConfigWithoutHost() config.PostgresConfig {
	return config.PostgresConfig{Database: "d", User: "u"}
}
