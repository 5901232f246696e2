package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInvalidDecision is returned when a decision value is not recognised.
var ErrInvalidDecision = errors.New("invalid decision")

// DecisionReader exposes decision lookups to the plan builder.
type DecisionReader interface {
	Get(id string) Decision
}

// DecisionPersistence loads and saves the decisions of one collection.
// Implementations live outside the engine (database, object storage).
type DecisionPersistence interface {
	// Load returns the saved decisions. A collection with nothing saved yields an empty map.
	Load(ctx context.Context, collection string) (map[string]Decision, error)

	// Save replaces the saved decisions of the collection.
	Save(ctx context.Context, collection string, decisions map[string]Decision) error
}

// DecisionStore holds one decision per endpoint ID for a collection.
// Writes come from one user action at a time; reads may happen concurrently.
type DecisionStore struct {
	mu         sync.RWMutex
	collection string
	decisions  map[string]Decision
	categories map[string]Category
	persist    DecisionPersistence
}

// NewDecisionStore creates an empty store. persist may be nil.
func NewDecisionStore(collection string, persist DecisionPersistence) *DecisionStore {
	return &DecisionStore{
		collection: collection,
		decisions:  make(map[string]Decision),
		categories: make(map[string]Category),
		persist:    persist,
	}
}

// Load replaces the in-memory decisions with the persisted ones.
func (s *DecisionStore) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	saved, err := s.persist.Load(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to load decisions for %s: %w", s.collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = make(map[string]Decision, len(saved))
	for id, d := range saved {
		if d.Valid() {
			s.decisions[id] = d
		}
	}
	return nil
}

// Flush writes the current decisions through the persistence port.
func (s *DecisionStore) Flush(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.Save(ctx, s.collection, s.Snapshot()); err != nil {
		return fmt.Errorf("failed to save decisions for %s: %w", s.collection, err)
	}
	return nil
}

// Get returns the decision for id, falling back to its category default.
func (s *DecisionStore) Get(id string) Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *DecisionStore) get(id string) Decision {
	if d, ok := s.decisions[id]; ok {
		return d
	}
	if c, ok := s.categories[id]; ok {
		return DefaultDecision(c)
	}
	return Unresolved
}

// Set records an explicit decision for id.
func (s *DecisionStore) Set(id string, d Decision) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDecision, d)
	}
	s.mu.Lock()
	s.decisions[id] = d
	s.mu.Unlock()
	return nil
}

// MergeDefaults inserts the category default for every endpoint of result
// that has no decision yet. Existing decisions are never overwritten.
// The categories of result replace those of any earlier pass.
// It returns the number of decisions inserted.
func (s *DecisionStore) MergeDefaults(result Result) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = make(map[string]Category, result.Len())
	added := 0
	for _, c := range Categories {
		for _, ep := range result.List(c) {
			s.categories[ep.ID] = c
			if _, ok := s.decisions[ep.ID]; ok {
				continue
			}
			s.decisions[ep.ID] = DefaultDecision(c)
			added++
		}
	}
	return added
}

// BulkSet assigns d to every endpoint whose category offers a binary choice
// (conflicts, local modifications, removals). Other endpoints are skipped.
// It returns the number of decisions changed.
func (s *DecisionStore) BulkSet(endpoints []Endpoint, d Decision) (int, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDecision, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, ep := range endpoints {
		id := EndpointID(ep)
		if !Bulkable(s.categories[id]) {
			continue
		}
		s.decisions[id] = d
		applied++
	}
	return applied, nil
}

// Snapshot returns a copy of the stored decisions.
func (s *DecisionStore) Snapshot() map[string]Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Decision, len(s.decisions))
	for id, d := range s.decisions {
		out[id] = d
	}
	return out
}

// Unresolved returns the IDs of conflicts still lacking a decision.
func (s *DecisionStore) Unresolved() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, c := range s.categories {
		if c == CategoryConflict && s.get(id) == Unresolved {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ReadyToApply reports whether every known conflict has been resolved.
func (s *DecisionStore) ReadyToApply() bool {
	return len(s.Unresolved()) == 0
}

// Reset drops every decision and category, e.g. after a successful sync.
func (s *DecisionStore) Reset() {
	s.mu.Lock()
	s.decisions = make(map[string]Decision)
	s.categories = make(map[string]Category)
	s.mu.Unlock()
}
