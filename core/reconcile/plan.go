package reconcile

import (
	"errors"
	"fmt"
)

// ErrUnresolvedConflicts is returned when a plan is requested while at least
// one conflict has no decision.
var ErrUnresolvedConflicts = errors.New("unresolved conflicts")

// UnresolvedConflicts returns the conflicts of result that decisions leave unresolved.
func UnresolvedConflicts(result Result, decisions DecisionReader) []Endpoint {
	var out []Endpoint
	for _, ep := range result.Conflicts {
		if decisions.Get(ep.ID) == Unresolved {
			out = append(out, ep)
		}
	}
	return out
}

// ReadyToApply reports whether every conflict of result has a decision.
func ReadyToApply(result Result, decisions DecisionReader) bool {
	return len(UnresolvedConflicts(result, decisions)) == 0
}

// BuildPlan projects result and decisions into a SyncPlan.
// It refuses to build while any conflict is unresolved.
func BuildPlan(result Result, decisions DecisionReader) (*SyncPlan, error) {
	if unresolved := UnresolvedConflicts(result, decisions); len(unresolved) > 0 {
		return nil, fmt.Errorf("cannot build sync plan: %w (%d)", ErrUnresolvedConflicts, len(unresolved))
	}
	plan := ProjectPlan(result, decisions)
	return &plan, nil
}

// ProjectPlan maps every classified endpoint to its plan operation without
// checking for unresolved conflicts. Neither argument is modified.
//
// New endpoints are always staged for addition; the apply request decides
// whether additions run. Local modifications accepted from the spec appear in
// both ToUpdateFromSpec and ToResetToSpec: the apply step writes spec content
// and discards local edits as two operations.
func ProjectPlan(result Result, decisions DecisionReader) SyncPlan {
	plan := SyncPlan{
		ToAdd:            []Endpoint{},
		ToUpdateFromSpec: []Endpoint{},
		ToRemove:         []Endpoint{},
		ToResetToSpec:    []Endpoint{},
		ToRetainAsIs:     []Endpoint{},
	}

	plan.ToAdd = append(plan.ToAdd, result.NewInSpec...)

	for _, ep := range result.SpecUpdates {
		if decisions.Get(ep.ID) == KeepMine {
			plan.ToRetainAsIs = append(plan.ToRetainAsIs, ep)
			continue
		}
		plan.ToUpdateFromSpec = append(plan.ToUpdateFromSpec, ep)
	}

	for _, ep := range result.Conflicts {
		switch decisions.Get(ep.ID) {
		case AcceptIncoming:
			plan.ToUpdateFromSpec = append(plan.ToUpdateFromSpec, ep)
		case KeepMine:
			plan.ToRetainAsIs = append(plan.ToRetainAsIs, ep)
		}
	}

	for _, ep := range result.LocalModifications {
		if decisions.Get(ep.ID) == AcceptIncoming {
			plan.ToUpdateFromSpec = append(plan.ToUpdateFromSpec, ep)
			plan.ToResetToSpec = append(plan.ToResetToSpec, ep)
			continue
		}
		plan.ToRetainAsIs = append(plan.ToRetainAsIs, ep)
	}

	for _, ep := range result.RemovedFromSpec {
		if decisions.Get(ep.ID) == AcceptIncoming {
			plan.ToRemove = append(plan.ToRemove, ep)
			continue
		}
		plan.ToRetainAsIs = append(plan.ToRetainAsIs, ep)
	}

	return plan
}

// DecisionMap adapts a plain map to DecisionReader. Missing IDs fall back to
// the default of the category they have in result.
type DecisionMap struct {
	Decisions map[string]Decision
	Result    *Result
}

// Get implements DecisionReader.
func (m DecisionMap) Get(id string) Decision {
	if d, ok := m.Decisions[id]; ok {
		return d
	}
	if m.Result != nil {
		if c, ok := m.Result.CategoryOf(id); ok {
			return DefaultDecision(c)
		}
	}
	return Unresolved
}
