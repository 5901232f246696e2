// Package reconcile keeps an editable endpoint collection in step with an
// OpenAPI spec that changes independently, without losing local edits.
//
// It consumes three comparisons produced elsewhere and merges them the way a
// version-control three-way merge does, using the stored spec as base:
//
//   - SpecDiff: stored spec vs remote spec
//   - LocalDiff: stored spec vs collection
//   - RemoteDrift: remote spec vs collection
//
// # Architecture
//
// 1. Identity: Normalize and EndpointID give every endpoint the same join key
// regardless of which comparison reported it ("GET:/users/:id").
//
// 2. Classifier: a Strategy assigns each changed endpoint to exactly one
// Category. The three-way strategy runs when RemoteDrift is present; the
// two-way strategy derives the same categories from SpecDiff and LocalDiff
// alone. Absent comparisons are never an error.
//
// 3. DecisionStore: one Decision per endpoint, seeded with category defaults
// by MergeDefaults and changed by Set or BulkSet. Persistence is injected.
//
// 4. Plan: BuildPlan projects a Result and the decisions into a SyncPlan for
// the Applier. An unresolved conflict blocks the plan.
//
// 5. Guard: suppresses recomputation from cached collection state shortly
// after a recomputation that read from disk.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(source, logger)
//	inputs, result, err := engine.Reconcile(ctx, "petstore", false)
//	if err != nil {
//	    return err // keep the previous result
//	}
//
//	store := reconcile.NewDecisionStore("petstore", persistence)
//	store.MergeDefaults(result)
//	_ = store.Set("GET:/pets/:id", reconcile.KeepMine)
//
//	plan, err := reconcile.BuildPlan(result, store)
//	if errors.Is(err, reconcile.ErrUnresolvedConflicts) {
//	    // ask the user to resolve
//	}
//	err = applier.Apply(ctx, reconcile.NewApplyRequest("petstore", reconcile.ModeSync, *plan, store.Snapshot()))
package reconcile
