// Package blobstore provides the storage abstraction snapshots and catalogs
// are read from and exports are written to.
//
// BlobStore is the interface for reading and writing data blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-memory store for tests
//   - CachingStore: LRU cache in front of any other store
//   - httpstore.Store: Read-only store over an HTTP base URL
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)        // Open for reading
//	    Put(ctx, name, data) error           // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Read-only backends return ErrReadOnly from Put and Delete.
package blobstore
