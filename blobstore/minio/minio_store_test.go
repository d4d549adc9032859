package minio

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMetadata(t *testing.T) {
	info := minio.ObjectInfo{
		UserMetadata: map[string]string{"Filename": "a.ifc"},
		Metadata: map[string][]string{
			"X-Amz-Meta-Projectname": {"P"},
			"Content-Type":           {"application/gzip"},
		},
	}

	fields := userMetadata(info)
	assert.Equal(t, map[string]string{"filename": "a.ifc", "projectname": "P"}, fields)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	bucket := "test-fragsync"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("compressed payload")
	_, err = client.PutObject(ctx, bucket, "test-prefix/proj1/file1", bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		UserMetadata: map[string]string{"filename": "a.ifc", "projectname": "P"},
	})
	require.NoError(t, err)

	store := NewStore(client, bucket, "test-prefix/")

	obj, err := store.Fetch(ctx, model.AssetReference{ID: "proj1/file1"})
	require.NoError(t, err)
	assert.Equal(t, data, obj.Data)
	assert.Equal(t, "a.ifc", obj.Header.Get("x-metadata-filename"))
	assert.Equal(t, "P", obj.Header.Get("x-metadata-projectname"))

	_, err = store.Fetch(ctx, model.AssetReference{ID: "proj1/missing"})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
