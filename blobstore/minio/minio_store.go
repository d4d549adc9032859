package minio

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/model"
	"github.com/minio/minio-go/v7"
)

// Store implements blobstore.Fetcher for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a new MinIO fetcher.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "models/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Fetch implements blobstore.Fetcher.
func (s *Store) Fetch(ctx context.Context, ref model.AssetReference) (*blobstore.Object, error) {
	key := s.key(ref.ID)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translateError(err, key)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(err, key)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateError(err, key)
	}

	return &blobstore.Object{
		Name:   "minio://" + path.Join(s.bucket, key),
		Data:   data,
		Header: blobstore.MetadataHeader(userMetadata(info)),
	}, nil
}

// userMetadata returns metadata fields keyed by their lowercase name without
// the X-Amz-Meta- prefix.
func userMetadata(info minio.ObjectInfo) map[string]string {
	fields := make(map[string]string, len(info.UserMetadata))
	for k, v := range info.UserMetadata {
		name := strings.ToLower(k)
		name = strings.TrimPrefix(name, "x-amz-meta-")
		fields[name] = v
	}
	// Older servers only return the raw header set.
	for k, vals := range info.Metadata {
		name := strings.ToLower(k)
		if !strings.HasPrefix(name, "x-amz-meta-") || len(vals) == 0 {
			continue
		}
		name = strings.TrimPrefix(name, "x-amz-meta-")
		if _, ok := fields[name]; !ok {
			fields[name] = vals[0]
		}
	}
	return fields
}

func translateError(err error, key string) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
		return fmt.Errorf("object %q: %w", key, blobstore.ErrNotFound)
	}
	return err
}
