// Package files serves comparisons from JSON or YAML files on disk and
// hands apply requests to other processes through an outbox directory.
//
// A comparison file holds up to three keys:
//
//	specDiff:    {added: [...], modified: [...], removed: [...], storedSpecMissing: false}
//	localDiff:   {modified: [...], noStoredSpec: false}
//	remoteDrift: {missing: [...], modified: [...], localOnly: [...]}
//
// A missing key means that comparison is unavailable.
package files
