// Package store implements the decision persistence port of the
// reconciliation engine and the archive of applied plans.
//
// Backends:
//
//   - GormPersistence: sync_decisions table (MySQL via GORM).
//   - ObjectPersistence: decisions/<collection>.json in object storage.
//   - MemoryPersistence: process memory.
//
// PlanArchive writes every applied plan to plans/<collection>/ so a sync can
// be audited after the decisions that produced it were reset.
package store
