// Package snapshot loads model snapshots from blob stores.
//
// A load never fails past the Loader boundary: a missing blob, a transport
// error or a malformed document becomes a model.Snapshot whose Err is set,
// so callers can keep computing over the snapshots that did load.
//
// LoadAll fans out one load per source and joins them in input order,
// bounded by a resource.Controller.
//
// Blobs named *.zst, *.lz4 or *.gz are decompressed transparently.
package snapshot
