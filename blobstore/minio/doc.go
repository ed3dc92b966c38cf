// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible storage systems such as
// Ceph, SeaweedFS and Garage without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minio.New("localhost:9000", "minioadmin", "minioadmin", false, "datasets", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tbl, err := loader.Load(ctx, store, "letters.csv")
package minio
