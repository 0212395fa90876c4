// Package cache keeps rendered charts in memory between form requests.
package cache

import (
	"context"
	"fmt"
	"time"

	applog "expenses/internal/log"
)

// Cache is the generic surface the form shell relies on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Purge()
	Size() int
}

var _ Cache[Chart] = (*LRUCache[Chart])(nil)

// Cleaner is implemented by caches with expiring entries.
type Cleaner interface {
	CleanExpired() int
}

// Chart is one rendered chart body.
type Chart struct {
	ContentType string
	Body        []byte
}

// ChartKey identifies a rendered chart. revision changes whenever the
// store is written, so stale charts are never served.
func ChartKey(kind string, month, year int, revision uint64) string {
	return fmt.Sprintf("%s:%04d-%02d@%d", kind, year, month, revision)
}

// NewChartCache returns an LRU sized for a handful of chart variants.
func NewChartCache(maxSize int, ttl time.Duration) *LRUCache[Chart] {
	return NewLRUCache[Chart](maxSize, ttl)
}

// Manager periodically drops expired entries from registered caches.
type Manager struct {
	caches []Cleaner
	logger *applog.Logger
}

func NewManager(logger *applog.Logger) *Manager {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Manager{logger: logger.With(applog.FieldOperation, "cache_sweep")}
}

func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// Sweep cleans every registered cache once.
func (m *Manager) Sweep() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("Expired cache entries removed", "count", n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
