// Package blobstore provides the transport layer for compressed geometry assets.
//
// A Fetcher retrieves one asset per call and returns its bytes together with the
// response headers. Fetchers never retry; bounded retry lives in package loader.
//
// # Built-in Implementations
//
//   - HTTPStore: authenticated GET against an asset server
//   - MemoryStore: in-memory assets for tests and fixtures
//   - LocalStore: compressed files on the local filesystem
//   - CachingStore: LRU of successful responses in front of any Fetcher
//   - s3.Store: Amazon S3, optionally resolved through a DynamoDB catalog
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Metadata
//
// Asset metadata travels as headers named "x-metadata-<field>". Object stores
// expose their user metadata under the same names so the loader parses every
// backend identically:
//
//	obj, _ := store.Fetch(ctx, model.AssetReference{ID: "proj1/file1"})
//	obj.Header.Get("X-Metadata-Filename") // "file1.ifc"
package blobstore
