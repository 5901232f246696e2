// Package openapisync exposes the reconciliation of API collections against
// their OpenAPI spec over HTTP.
//
// Each collection gets a session holding the latest classification, the
// user's decisions and a staleness guard. Decisions survive restarts through
// the configured persistence backend; applied plans are archived in object
// storage.
//
// # HTTP Endpoints
//
//   - GET  /sync : Lists reconciled collections.
//   - POST /sync/:collection/diffs : Classifies posted comparisons (JSON or YAML).
//   - POST /sync/:collection/refresh : Recomputes from the source ({"trigger": "disk-read" | "cached-state"} or {"collectionSize": n}).
//   - GET  /sync/:collection/review : Classification, decisions and unresolved conflicts.
//   - PUT  /sync/:collection/decisions : Sets one decision ({"id", "decision"}).
//   - POST /sync/:collection/decisions/bulk : Sets a decision for a whole category.
//   - GET  /sync/:collection/plan : Sync plan (409 while conflicts are unresolved).
//   - POST /sync/:collection/apply : Applies the plan ({"mode": "sync" | "spec-only" | "reset"}).
//   - GET  /sync/:collection/history : Archived plan names, newest first.
//   - GET  /sync/:collection/history/:name : One archived plan.
//
// Sub-packages provide the ports: files and remote implement the comparison
// source and the applier, store implements decision persistence.
package openapisync
