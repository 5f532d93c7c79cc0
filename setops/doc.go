// Package setops implements the snapshot set-algebra engine.
//
// Given loaded snapshots it computes:
//
//   - Intersect: models present in every succeeded snapshot of a range
//   - Difference: models of an older snapshot missing from a newer one
//
// Both operations return a ResultSet sorted by product line, then release
// date. Identifiers are interned into a Dictionary per operation and set
// membership runs on Roaring bitmaps (IDSet).
//
// # Failure Handling
//
// Intersect tolerates failed snapshots: they are excluded and reported in
// IntersectResult.FailedSources. Difference needs both operands and returns
// a *SnapshotLoadError naming the failed source.
//
// # Representative Records
//
// When an identifier appears in several snapshots the record is always taken
// from the first succeeded snapshot. Field values are never merged.
package setops
