// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems (Ceph, SeaweedFS,
// Garage) and needs no AWS configuration chain.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "compat-data",
//	    Prefix:    "snapshots/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	loader := snapshot.NewBlobLoader(store)
package minio
