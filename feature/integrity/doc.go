// Package integrity provides health checks for the infrastructure the sync
// service depends on.
//
// # Checks Provided
//
//   - Structure: the storage bucket exists and holds the decisions/ and plans/ prefixes.
//   - Sources: every comparison file in the source directory parses.
//   - Schema: the decision table matches its GORM model (columns, types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/sources : Runs source file check.
//   - GET /integrity/schema : Runs schema check (supports ?fix=true).
package integrity
