// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	tbl, err := loader.Load(ctx, store, "letters.csv.zst")
//
// S3-compatible services work through WithEndpoint, which also switches to
// path-style addressing.
package s3
