// Package minio provides a MinIO implementation of blobstore.Fetcher.
//
// Works with MinIO and other S3-compatible storage (Ceph, R2, ...). User
// metadata set on upload (X-Amz-Meta-Filename, ...) surfaces as
// x-metadata-* headers on the fetched object.
package minio
