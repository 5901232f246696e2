package reconcile

import (
	"encoding/json"
	"fmt"

	"openapi-sync/core/utils"
)

// Field aliases accepted when decoding comparisons. The collection differ
// reports additions as "missing" and removals as "localOnly".
var (
	addedKeys       = []string{"added", "missing"}
	modifiedKeys    = []string{"modified"}
	removedKeys     = []string{"removed", "localOnly"}
	specDiffKeys    = []string{"specDiff", "diffResult"}
	localDiffKeys   = []string{"localDiff", "collectionDrift"}
	remoteDriftKeys = []string{"remoteDrift"}
)

// ParseDiffSet decodes a JSON comparison. Only invalid JSON is an error;
// missing or mistyped fields decode as empty. A JSON null yields nil.
func ParseDiffSet(data []byte) (*DiffSet, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse comparison: %w", err)
	}
	return DecodeDiffSet(raw), nil
}

// ParseInputs decodes a JSON document holding up to three comparisons.
func ParseInputs(data []byte) (Inputs, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Inputs{}, fmt.Errorf("failed to parse comparisons: %w", err)
	}
	return DecodeInputs(raw), nil
}

// DecodeInputs builds Inputs from a generic document. Comparisons that are
// missing or not objects are left absent.
func DecodeInputs(raw any) Inputs {
	m, ok := raw.(map[string]any)
	if !ok {
		return Inputs{}
	}
	return Inputs{
		SpecDiff:    DecodeDiffSet(first(m, specDiffKeys)),
		LocalDiff:   DecodeDiffSet(first(m, localDiffKeys)),
		RemoteDrift: DecodeDiffSet(first(m, remoteDriftKeys)),
	}
}

// DecodeDiffSet builds a DiffSet from a generic document such as the output
// of json.Unmarshal or yaml.Unmarshal into any. It returns nil when raw is
// not an object.
func DecodeDiffSet(raw any) *DiffSet {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return &DiffSet{
		Added:             decodeEndpoints(m, addedKeys),
		Modified:          decodeEndpoints(m, modifiedKeys),
		Removed:           decodeEndpoints(m, removedKeys),
		NoStoredSpec:      utils.ToBool(m["noStoredSpec"]),
		StoredSpecMissing: utils.ToBool(m["storedSpecMissing"]),
	}
}

func decodeEndpoints(m map[string]any, keys []string) []Endpoint {
	eps := []Endpoint{}
	for _, key := range keys {
		items, ok := m[key].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if ep, ok := decodeEndpoint(item); ok {
				eps = append(eps, ep)
			}
		}
	}
	return eps
}

func decodeEndpoint(raw any) (Endpoint, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Endpoint{}, false
	}
	return Endpoint{
		ID:         field(m, "id"),
		Method:     field(m, "method"),
		Path:       field(m, "path"),
		Summary:    field(m, "summary"),
		Name:       field(m, "name"),
		Deprecated: utils.ToBool(m["deprecated"]),
	}, true
}

func field(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return utils.ToString(v)
}

func first(m map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
