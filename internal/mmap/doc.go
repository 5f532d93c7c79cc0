// Package mmap provides read-only memory-mapped file access.
//
// Snapshot and catalog files on local disk are mapped instead of read so
// repeated range operations over the same versions share the page cache
// without copying through kernel buffers.
//
//	m, err := mmap.Open("data/sequoia.json")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// On Unix platforms the mapping uses mmap(2). Elsewhere the file is read
// into memory and the same API is served from the buffer.
//
// Bytes is only valid until Close returns. Close is idempotent.
package mmap
