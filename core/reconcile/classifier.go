package reconcile

// Strategy turns the available comparisons into a categorized Result.
type Strategy interface {
	// Name identifies the strategy in results and logs.
	Name() string

	// Classify assigns every changed endpoint to exactly one category.
	// It must be total: absent sets and missing fields count as empty.
	Classify(in Inputs) Result
}

const (
	// StrategyThreeWay is used when the remote-vs-collection drift is available.
	StrategyThreeWay = "three-way"
	// StrategyTwoWay is the fallback used without remote drift.
	StrategyTwoWay = "two-way"
)

// SelectStrategy picks the strategy for the inputs that are present.
func SelectStrategy(in Inputs) Strategy {
	if in.RemoteDrift != nil {
		return threeWay{}
	}
	return twoWay{}
}

// Classify runs the strategy selected for in.
func Classify(in Inputs) Result {
	return SelectStrategy(in).Classify(in)
}

// threeWay categorizes remote drift, attributing each modification using the
// stored-spec comparisons as merge base.
type threeWay struct{}

func (threeWay) Name() string { return StrategyThreeWay }

func (s threeWay) Classify(in Inputs) Result {
	c := newCollector(s.Name())

	specModified := idSet(in.SpecDiff.modified())
	localModified := idSet(in.LocalDiff.modified())
	noBaseline := in.LocalDiff.noBaseline()

	for _, ep := range in.RemoteDrift.added() {
		c.add(CategoryNewInSpec, ep)
	}

	for _, ep := range in.RemoteDrift.modified() {
		if noBaseline {
			c.add(CategorySpecUpdate, ep)
			continue
		}

		id := EndpointID(ep)
		_, specChanged := specModified[id]
		_, localChanged := localModified[id]

		switch {
		case specChanged && localChanged:
			c.add(CategoryConflict, ep)
		case localChanged:
			c.add(CategoryLocalModification, ep)
		default:
			// Spec-only changes and drift neither comparison explains are both
			// reviewed as incoming updates.
			c.add(CategorySpecUpdate, ep)
		}
	}

	for _, ep := range in.RemoteDrift.removed() {
		c.add(CategoryRemovedFromSpec, ep)
	}

	return c.result
}

// twoWay derives the same categories from the stored-spec comparisons alone.
// Precedence on overlapping IDs: conflict, spec update, removal, local
// modification, addition. Removal wins over a local-only edit so the category
// matches what the three-way strategy reports once remote drift arrives.
type twoWay struct{}

func (twoWay) Name() string { return StrategyTwoWay }

func (s twoWay) Classify(in Inputs) Result {
	c := newCollector(s.Name())

	specModified := in.SpecDiff.modified()
	localModified := in.LocalDiff.modified()

	if in.LocalDiff.noBaseline() {
		for _, ep := range specModified {
			c.add(CategorySpecUpdate, ep)
		}
		for _, ep := range localModified {
			c.add(CategorySpecUpdate, ep)
		}
	} else {
		localSet := idSet(localModified)
		for _, ep := range specModified {
			if _, ok := localSet[EndpointID(ep)]; ok {
				c.add(CategoryConflict, ep)
			}
		}
		for _, ep := range specModified {
			c.add(CategorySpecUpdate, ep)
		}
	}

	// An endpoint removed from the spec and edited locally is RemovedFromSpec,
	// not a removed-and-edited conflict.
	for _, ep := range in.SpecDiff.removed() {
		c.add(CategoryRemovedFromSpec, ep)
	}
	for _, ep := range localModified {
		c.add(CategoryLocalModification, ep)
	}
	for _, ep := range in.SpecDiff.added() {
		c.add(CategoryNewInSpec, ep)
	}

	return c.result
}

// collector accumulates endpoints into a Result, keeping the first category
// seen for each ID.
type collector struct {
	seen   map[string]struct{}
	result Result
}

func newCollector(strategy string) *collector {
	return &collector{
		seen: make(map[string]struct{}),
		result: Result{
			NewInSpec:          []Endpoint{},
			SpecUpdates:        []Endpoint{},
			Conflicts:          []Endpoint{},
			LocalModifications: []Endpoint{},
			RemovedFromSpec:    []Endpoint{},
			Strategy:           strategy,
		},
	}
}

func (c *collector) add(cat Category, ep Endpoint) bool {
	ep = Tag(ep)
	if _, dup := c.seen[ep.ID]; dup {
		return false
	}
	c.seen[ep.ID] = struct{}{}

	switch cat {
	case CategoryNewInSpec:
		c.result.NewInSpec = append(c.result.NewInSpec, ep)
	case CategorySpecUpdate:
		c.result.SpecUpdates = append(c.result.SpecUpdates, ep)
	case CategoryConflict:
		c.result.Conflicts = append(c.result.Conflicts, ep)
	case CategoryLocalModification:
		c.result.LocalModifications = append(c.result.LocalModifications, ep)
	case CategoryRemovedFromSpec:
		c.result.RemovedFromSpec = append(c.result.RemovedFromSpec, ep)
	}
	return true
}

func (d *DiffSet) added() []Endpoint {
	if d == nil {
		return nil
	}
	return d.Added
}

func (d *DiffSet) modified() []Endpoint {
	if d == nil {
		return nil
	}
	return d.Modified
}

func (d *DiffSet) removed() []Endpoint {
	if d == nil {
		return nil
	}
	return d.Removed
}

func (d *DiffSet) noBaseline() bool {
	return d != nil && d.NoStoredSpec
}
