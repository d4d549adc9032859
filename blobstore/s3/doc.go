// Package s3 provides an Amazon S3 implementation of blobstore.Fetcher.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("models/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	obj, err := store.Fetch(ctx, model.AssetReference{ID: "proj1/file1"})
//
// Object user metadata (x-amz-meta-filename, ...) is exposed as
// x-metadata-* headers on the returned blobstore.Object.
//
// # Catalog
//
// A DynamoDB table can map asset ids to object keys and carry metadata for
// objects that were uploaded without user metadata. See DDBCatalog.
package s3
