package auth

import (
	"context"
	"time"

	"nameplate/internal/infra/logging"
)

// Reloader refreshes Keys from a Repository. A failed load keeps the previous set.
type Reloader struct {
	repo     Repository
	keys     *Keys
	interval time.Duration
}

func NewReloader(repo Repository, keys *Keys, interval time.Duration) *Reloader {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reloader{repo: repo, keys: keys, interval: interval}
}

// LoadOnce performs a single load.
func (r *Reloader) LoadOnce(ctx context.Context) error {
	m, err := r.repo.LoadKeys(ctx)
	if err != nil {
		return err
	}
	r.keys.Replace(m)
	logging.Info("API keys loaded", "count", len(m))
	return nil
}

// Start reloads in the background until ctx is done.
func (r *Reloader) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.LoadOnce(ctx); err != nil {
					logging.Error("Failed to reload API keys", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
