// Package blobstore abstracts where table files live.
//
// A BlobStore opens named, immutable blobs for reading. Loaders read a blob
// once, decode it into a table and close it.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped
//   - MemoryStore: in-memory, for tests and fixtures
//   - s3.Store: Amazon S3 (and S3-compatible endpoints) via aws-sdk-go-v2
//   - minio.Store: MinIO via minio-go
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Implementations must be safe for concurrent use and must return an error
// satisfying errors.Is(err, ErrNotFound) for missing blobs.
package blobstore
