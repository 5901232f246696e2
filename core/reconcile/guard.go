package reconcile

import (
	"sync"
	"time"
)

// DefaultGuardWindow is how long a disk read keeps cached-state triggers quiet.
const DefaultGuardWindow = 3 * time.Second

// Trigger identifies what asked for a recomputation.
type Trigger string

const (
	// TriggerDiskRead recomputes from authoritative on-disk and remote state.
	TriggerDiskRead Trigger = "disk-read"
	// TriggerCachedState recomputes from in-memory collection state that may lag the disk.
	TriggerCachedState Trigger = "cached-state"
)

// Guard decides whether a recomputation trigger may run. It never serves data:
// it only suppresses cached-state recomputations that would overwrite a fresh
// disk read taken within the window.
type Guard struct {
	mu           sync.Mutex
	window       time.Duration
	lastDiskRead time.Time
	lastSize     int
	sizeSeen     bool
	now          func() time.Time
}

// NewGuard creates a guard. A non-positive window uses DefaultGuardWindow.
func NewGuard(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultGuardWindow
	}
	return &Guard{window: window, now: time.Now}
}

// WithClock replaces the time source. Used in tests.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.mu.Lock()
	g.now = now
	g.mu.Unlock()
	return g
}

// MarkDiskRead records that a comparison just read authoritative state.
func (g *Guard) MarkDiskRead() {
	g.mu.Lock()
	g.lastDiskRead = g.now()
	g.mu.Unlock()
}

// LastDiskRead returns the time of the last recorded disk read.
func (g *Guard) LastDiskRead() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastDiskRead
}

// Allow reports whether a recomputation for trigger should run.
// Disk reads are always allowed and are recorded.
func (g *Guard) Allow(trigger Trigger) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if trigger == TriggerDiskRead {
		g.lastDiskRead = g.now()
		return true
	}
	return g.lastDiskRead.IsZero() || g.now().Sub(g.lastDiskRead) >= g.window
}

// ObserveCollectionSize records the number of requests in the collection and
// reports whether a cached-state recomputation should run because it changed.
// The first observation only sets the baseline.
func (g *Guard) ObserveCollectionSize(n int) bool {
	g.mu.Lock()
	changed := g.sizeSeen && g.lastSize != n
	first := !g.sizeSeen
	g.lastSize = n
	g.sizeSeen = true
	g.mu.Unlock()

	if first || !changed {
		return false
	}
	return g.Allow(TriggerCachedState)
}
