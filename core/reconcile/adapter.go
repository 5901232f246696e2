package reconcile

import "context"

// Source supplies the three comparisons for a collection. Differencing itself
// happens outside the engine; a Source only transports its results.
//
// Each method may return (nil, nil) when the comparison is not available.
// readFromDisk asks the source to ignore cached collection state.
type Source interface {
	// SpecDiff compares the stored spec with the remote spec.
	SpecDiff(ctx context.Context, collection string) (*DiffSet, error)

	// LocalDiff compares the stored spec with the collection.
	LocalDiff(ctx context.Context, collection string, readFromDisk bool) (*DiffSet, error)

	// RemoteDrift compares the remote spec with the collection.
	RemoteDrift(ctx context.Context, collection string, readFromDisk bool) (*DiffSet, error)
}

// Mode selects how the apply collaborator treats a plan.
type Mode string

const (
	// ModeSync applies the reviewed plan.
	ModeSync Mode = "sync"
	// ModeSpecOnly updates the stored spec and existing endpoints without adding new ones.
	ModeSpecOnly Mode = "spec-only"
	// ModeReset resets the collection to the spec.
	ModeReset Mode = "reset"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSync, ModeSpecOnly, ModeReset:
		return true
	default:
		return false
	}
}

// ApplyRequest is the single payload sent to the apply collaborator.
type ApplyRequest struct {
	// Collection identifies the collection to write.
	Collection string `json:"collection"`

	// Mode is the sync mode requested by the user.
	Mode Mode `json:"mode"`

	// AddNewEndpoints gates SyncPlan.ToAdd. It is false in spec-only mode.
	AddNewEndpoints bool `json:"addNewEndpoints"`

	// RemoveDeleted is true when the plan removes at least one endpoint.
	RemoveDeleted bool `json:"removeDeleted"`

	// Plan is the operation set to apply.
	Plan SyncPlan `json:"plan"`

	// LocalOnlyToRemove lists the IDs of collection-only endpoints to delete.
	LocalOnlyToRemove []string `json:"localOnlyToRemove"`

	// Decisions is the decision snapshot the plan was built from.
	Decisions map[string]Decision `json:"endpointDecisions"`
}

// NewApplyRequest wraps plan for the given collection and mode.
func NewApplyRequest(collection string, mode Mode, plan SyncPlan, decisions map[string]Decision) ApplyRequest {
	if !mode.Valid() {
		mode = ModeSync
	}
	removals := plan.RemovalIDs()
	return ApplyRequest{
		Collection:        collection,
		Mode:              mode,
		AddNewEndpoints:   mode != ModeSpecOnly,
		RemoveDeleted:     len(removals) > 0,
		Plan:              plan,
		LocalOnlyToRemove: removals,
		Decisions:         decisions,
	}
}

// Applier writes a plan to the collection store. The engine calls it once per
// sync and never retries; retry policy belongs to the implementation.
type Applier interface {
	Apply(ctx context.Context, req ApplyRequest) error
}
