package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiffSet(t *testing.T) {
	data := []byte(`{
		"added": [{"method": "post", "path": "/pets"}],
		"modified": [{"id": "GET:/pets/:id", "summary": "Get pet"}, "not-an-object"],
		"removed": [{"method": "DELETE", "path": "/pets/{id}", "deprecated": true}],
		"noStoredSpec": true
	}`)

	d, err := ParseDiffSet(data)
	require.NoError(t, err)
	require.NotNil(t, d)

	require.Len(t, d.Added, 1)
	assert.Equal(t, "post", d.Added[0].Method)
	require.Len(t, d.Modified, 1)
	assert.Equal(t, "GET:/pets/:id", d.Modified[0].ID)
	assert.Equal(t, "Get pet", d.Modified[0].Summary)
	require.Len(t, d.Removed, 1)
	assert.True(t, d.Removed[0].Deprecated)
	assert.True(t, d.NoStoredSpec)
	assert.False(t, d.StoredSpecMissing)
}

func TestParseDiffSet_CollectionDriftAliases(t *testing.T) {
	d, err := ParseDiffSet([]byte(`{"missing": [{"method": "GET", "path": "/a"}], "localOnly": [{"method": "GET", "path": "/b"}]}`))
	require.NoError(t, err)

	assert.Equal(t, "/a", d.Added[0].Path)
	assert.Equal(t, "/b", d.Removed[0].Path)
	assert.Empty(t, d.Modified)
}

func TestParseDiffSet_Tolerant(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantNil bool
	}{
		{name: "Null", data: `null`, wantNil: true},
		{name: "Array", data: `[1,2]`, wantNil: true},
		{name: "Empty object", data: `{}`},
		{name: "Mistyped lists", data: `{"added": "x", "modified": 3, "removed": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDiffSet([]byte(tt.data))
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.True(t, d.Empty())
		})
	}
}

func TestParseDiffSet_InvalidJSON(t *testing.T) {
	_, err := ParseDiffSet([]byte(`{"added": [`))
	assert.Error(t, err)
}

func TestParseInputs(t *testing.T) {
	in, err := ParseInputs([]byte(`{
		"diffResult": {"modified": [{"method": "GET", "path": "/a"}]},
		"collectionDrift": {"modified": [{"method": "GET", "path": "/a"}]}
	}`))
	require.NoError(t, err)

	require.NotNil(t, in.SpecDiff)
	require.NotNil(t, in.LocalDiff)
	assert.Nil(t, in.RemoteDrift)

	r := Classify(in)
	assert.Equal(t, StrategyTwoWay, r.Strategy)
	assert.Equal(t, []string{"GET:/a"}, ids(r.Conflicts))
}

func TestDecodeInputs_NotAnObject(t *testing.T) {
	assert.Equal(t, Inputs{}, DecodeInputs("text"))
	assert.Equal(t, Inputs{}, DecodeInputs(nil))
}
