package store

import (
	"context"
	"sync"

	"openapi-sync/core/reconcile"
)

// MemoryPersistence keeps decisions in process memory. Decisions are lost on
// restart; it serves tests and deployments without a database or bucket.
type MemoryPersistence struct {
	mu   sync.Mutex
	data map[string]map[string]reconcile.Decision
}

// NewMemoryPersistence creates an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{data: make(map[string]map[string]reconcile.Decision)}
}

// Load returns a copy of the saved decisions.
func (p *MemoryPersistence) Load(_ context.Context, collection string) (map[string]reconcile.Decision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyDecisions(p.data[collection]), nil
}

// Save stores a copy of decisions.
func (p *MemoryPersistence) Save(_ context.Context, collection string, decisions map[string]reconcile.Decision) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[collection] = copyDecisions(decisions)
	return nil
}

func copyDecisions(in map[string]reconcile.Decision) map[string]reconcile.Decision {
	out := make(map[string]reconcile.Decision, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
