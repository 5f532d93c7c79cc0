// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "compat-data",
//	    s3.WithPrefix("snapshots/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	loader := snapshot.NewBlobLoader(store)
//
// # Features
//
//   - Range reads for partial fetches
//   - Managed uploads for exported results
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
