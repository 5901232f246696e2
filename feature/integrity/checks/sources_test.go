package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSources(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("petstore.json", `{"specDiff": {"added": []}}`)
	write("users.yaml", "specDiff:\n  added: []\n")
	write("broken.json", `{"specDiff": [`)
	write("petstore.apply.json", `{}`)
	write("notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	report, err := CheckSources(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"petstore", "users"}, report.Collections)
	require.Contains(t, report.Invalid, "broken.json")
	assert.Len(t, report.Invalid, 1)
}

func TestCheckSources_MissingDir(t *testing.T) {
	_, err := CheckSources(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
