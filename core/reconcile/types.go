package reconcile

// Endpoint is a single HTTP endpoint as reported by a difference source.
// ID is derived by the identity normalizer unless the source supplied one.
type Endpoint struct {
	// ID is the stable join key (e.g., "GET:/users/:id").
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Method is the HTTP method. Empty means GET.
	Method string `json:"method" yaml:"method"`

	// Path is the path template as written in the source (e.g., "/users/{id}").
	Path string `json:"path" yaml:"path"`

	// Summary is the operation summary, if known.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Name is the request name in the collection, if known.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Deprecated reports whether the spec marks the operation deprecated.
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// DiffSet is one comparison produced by a difference source.
// A nil *DiffSet means the comparison is absent (in flight, failed or not requested).
type DiffSet struct {
	// Added holds endpoints present on the compared side only.
	Added []Endpoint `json:"added" yaml:"added"`

	// Modified holds endpoints present on both sides with differing content.
	Modified []Endpoint `json:"modified" yaml:"modified"`

	// Removed holds endpoints present on the reference side only.
	Removed []Endpoint `json:"removed" yaml:"removed"`

	// NoStoredSpec is set when the comparison had no stored spec to use as baseline.
	NoStoredSpec bool `json:"noStoredSpec,omitempty" yaml:"noStoredSpec,omitempty"`

	// StoredSpecMissing is set when the stored spec file could not be found.
	StoredSpecMissing bool `json:"storedSpecMissing,omitempty" yaml:"storedSpecMissing,omitempty"`
}

// Empty reports whether the set carries no endpoints.
func (d *DiffSet) Empty() bool {
	return d == nil || len(d.Added)+len(d.Modified)+len(d.Removed) == 0
}

// Inputs bundles the three comparisons consumed by the classifier.
type Inputs struct {
	// SpecDiff compares the stored spec with the remote spec.
	SpecDiff *DiffSet `json:"specDiff,omitempty"`

	// LocalDiff compares the stored spec with the collection.
	LocalDiff *DiffSet `json:"localDiff,omitempty"`

	// RemoteDrift compares the remote spec with the collection.
	RemoteDrift *DiffSet `json:"remoteDrift,omitempty"`
}

// Category is the single actionable bucket an endpoint is classified into.
type Category string

const (
	// CategoryNewInSpec marks endpoints present remotely but not in the collection.
	CategoryNewInSpec Category = "new-in-spec"
	// CategorySpecUpdate marks endpoints changed by the spec only (or unattributable).
	CategorySpecUpdate Category = "spec-update"
	// CategoryConflict marks endpoints changed by both the spec and the collection.
	CategoryConflict Category = "conflict"
	// CategoryLocalModification marks endpoints changed in the collection only.
	CategoryLocalModification Category = "local-modification"
	// CategoryRemovedFromSpec marks endpoints present in the collection but gone from the spec.
	CategoryRemovedFromSpec Category = "removed-from-spec"
)

// Categories lists every category in presentation order.
var Categories = []Category{
	CategoryNewInSpec,
	CategorySpecUpdate,
	CategoryConflict,
	CategoryLocalModification,
	CategoryRemovedFromSpec,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Decision is the user's choice for one endpoint.
type Decision string

const (
	// Unresolved means no choice has been made yet.
	Unresolved Decision = ""
	// AcceptIncoming takes the spec's version (or the spec's removal).
	AcceptIncoming Decision = "accept-incoming"
	// KeepMine keeps the collection as it is.
	KeepMine Decision = "keep-mine"
)

// Valid reports whether d is one of the known decision values.
func (d Decision) Valid() bool {
	switch d {
	case Unresolved, AcceptIncoming, KeepMine:
		return true
	default:
		return false
	}
}

// DefaultDecision returns the decision an endpoint starts with for its category.
func DefaultDecision(c Category) Decision {
	switch c {
	case CategorySpecUpdate, CategoryNewInSpec:
		return AcceptIncoming
	case CategoryLocalModification, CategoryRemovedFromSpec:
		return KeepMine
	default:
		return Unresolved
	}
}

// Bulkable reports whether bulk actions apply to the category.
func Bulkable(c Category) bool {
	switch c {
	case CategoryConflict, CategoryLocalModification, CategoryRemovedFromSpec:
		return true
	default:
		return false
	}
}

// Result is the output of one reconciliation pass.
// The five lists are pairwise disjoint by endpoint ID.
type Result struct {
	// NewInSpec lists endpoints to add from the spec.
	NewInSpec []Endpoint `json:"newInSpec"`

	// SpecUpdates lists endpoints updated by the spec only.
	SpecUpdates []Endpoint `json:"specUpdates"`

	// Conflicts lists endpoints changed on both sides.
	Conflicts []Endpoint `json:"conflicts"`

	// LocalModifications lists endpoints changed in the collection only.
	LocalModifications []Endpoint `json:"localModifications"`

	// RemovedFromSpec lists endpoints no longer in the spec.
	RemovedFromSpec []Endpoint `json:"removedFromSpec"`

	// Strategy names the classification strategy that produced this result.
	Strategy string `json:"strategy"`
}

// List returns the endpoints of a single category.
func (r *Result) List(c Category) []Endpoint {
	switch c {
	case CategoryNewInSpec:
		return r.NewInSpec
	case CategorySpecUpdate:
		return r.SpecUpdates
	case CategoryConflict:
		return r.Conflicts
	case CategoryLocalModification:
		return r.LocalModifications
	case CategoryRemovedFromSpec:
		return r.RemovedFromSpec
	}
	return nil
}

// CategoryOf returns the category assigned to id, if any.
func (r *Result) CategoryOf(id string) (Category, bool) {
	for _, c := range Categories {
		for _, ep := range r.List(c) {
			if ep.ID == id {
				return c, true
			}
		}
	}
	return "", false
}

// Len returns the total number of classified endpoints.
func (r *Result) Len() int {
	n := 0
	for _, c := range Categories {
		n += len(r.List(c))
	}
	return n
}

// IDs returns every classified endpoint ID.
func (r *Result) IDs() []string {
	ids := make([]string, 0, r.Len())
	for _, c := range Categories {
		for _, ep := range r.List(c) {
			ids = append(ids, ep.ID)
		}
	}
	return ids
}

// SyncPlan is the set of operations handed to the apply collaborator.
// It is built once from a Result and a decision snapshot and consumed once.
type SyncPlan struct {
	// ToAdd lists endpoints to create from the spec.
	ToAdd []Endpoint `json:"toAdd"`

	// ToUpdateFromSpec lists endpoints whose content is replaced by the spec's.
	ToUpdateFromSpec []Endpoint `json:"toUpdateFromSpec"`

	// ToRemove lists collection endpoints to delete because the spec dropped them.
	ToRemove []Endpoint `json:"toRemove"`

	// ToResetToSpec lists locally modified endpoints whose edits are discarded.
	ToResetToSpec []Endpoint `json:"toResetToSpec"`

	// ToRetainAsIs lists endpoints the user chose to keep unchanged.
	ToRetainAsIs []Endpoint `json:"toRetainAsIs"`
}

// RemovalIDs returns the IDs of collection-only endpoints to delete.
func (p *SyncPlan) RemovalIDs() []string {
	ids := make([]string, 0, len(p.ToRemove))
	for _, ep := range p.ToRemove {
		ids = append(ids, ep.ID)
	}
	return ids
}

// Empty reports whether the plan changes nothing in the collection.
func (p *SyncPlan) Empty() bool {
	return len(p.ToAdd)+len(p.ToUpdateFromSpec)+len(p.ToRemove)+len(p.ToResetToSpec) == 0
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	// Add counts endpoints to create.
	Add int `json:"add"`
	// Update counts endpoints to overwrite from the spec.
	Update int `json:"update"`
	// Remove counts endpoints to delete.
	Remove int `json:"remove"`
	// Reset counts local edits to discard.
	Reset int `json:"reset"`
	// Retain counts endpoints kept as they are.
	Retain int `json:"retain"`
}

// Summary returns aggregate counts for the plan.
func (p *SyncPlan) Summary() PlanSummary {
	return PlanSummary{
		Add:    len(p.ToAdd),
		Update: len(p.ToUpdateFromSpec),
		Remove: len(p.ToRemove),
		Reset:  len(p.ToResetToSpec),
		Retain: len(p.ToRetainAsIs),
	}
}
