package checks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"openapi-sync/feature/openapisync/files"
)

// SourceReport lists the comparison files found in the source directory.
type SourceReport struct {
	Dir         string            `json:"dir"`
	Collections []string          `json:"collections"`
	Invalid     map[string]string `json:"invalid"`
}

// CheckSources parses every comparison file in dir and reports the ones that
// cannot be read.
func CheckSources(dir string) (*SourceReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", dir, err)
	}

	report := &SourceReport{
		Dir:         dir,
		Collections: []string{},
		Invalid:     make(map[string]string),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isComparisonExt(ext) || strings.HasSuffix(name, ".apply.json") {
			continue
		}

		if _, err := files.ReadInputs(filepath.Join(dir, name)); err != nil {
			report.Invalid[name] = err.Error()
			continue
		}
		report.Collections = append(report.Collections, strings.TrimSuffix(name, filepath.Ext(name)))
	}

	sort.Strings(report.Collections)
	return report, nil
}

func isComparisonExt(ext string) bool {
	for _, e := range files.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
