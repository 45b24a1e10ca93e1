// Package cache provides the per-user list caches the HTTP server puts
// in front of the remote finance API, plus a manager that sweeps expired
// entries in the background.
package cache

import (
	"log/slog"
	"time"
)

// Cleaner is any cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the background sweep over a set of registered caches.
type Manager struct {
	caches    []Cleaner
	stopSweep chan struct{}
	sweepDone chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stopSweep: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
}

// Register adds a cache to the sweep set. Call before StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins sweeping all registered caches on the interval.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.sweep(interval)
}

func (m *Manager) sweep(interval time.Duration) {
	defer close(m.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			swept := 0
			for _, c := range m.caches {
				swept += c.CleanExpired()
			}
			if swept > 0 {
				slog.Debug("Swept expired cache entries", "count", swept)
			}
		case <-m.stopSweep:
			return
		}
	}
}

// Stop halts the sweep goroutine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stopSweep)
	<-m.sweepDone
}
