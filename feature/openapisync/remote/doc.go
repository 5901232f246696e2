// Package remote connects the reconciliation engine to HTTP collaborators:
// a differencing service supplying the three comparisons and an endpoint
// that applies sync plans to the collection store.
package remote
