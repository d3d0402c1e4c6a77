package minio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rankgo/blobstore"
)

func TestListPrefix(t *testing.T) {
	store := NewStore(nil, "bucket", "root/")

	// path.Join strips the trailing slash; listPrefix restores it so
	// "datasets/" cannot match "datasets_old/...".
	assert.Equal(t, "root/datasets/", store.listPrefix("datasets/"))
	assert.Equal(t, "root/", store.listPrefix(""))
	assert.Equal(t, "root/datasets", store.listPrefix("datasets"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "datasets/", bare.listPrefix("datasets/"))
	assert.Equal(t, "", bare.listPrefix(""))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-rankgo"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	prefix := fmt.Sprintf("test-rankgo-%d/", time.Now().UnixNano())
	store := NewStore(client, bucket, prefix)

	// Put and Get
	data := []byte(`[{"id":1,"restaurant_name":"Alpha","rating":9.0,"distance_from_me":100.0}]`)
	err = store.Put(ctx, "datasets/page_01.json", data)
	require.NoError(t, err)

	got, err := store.Get(ctx, "datasets/page_01.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// List honors the prefix boundary
	err = store.Put(ctx, "datasets_old/page_01.json", data)
	require.NoError(t, err)

	names, err := store.List(ctx, "datasets/")
	require.NoError(t, err)
	assert.Equal(t, []string{"datasets/page_01.json"}, names)

	// Delete, then the NoSuchKey branch maps to ErrNotFound
	require.NoError(t, store.Delete(ctx, "datasets/page_01.json"))

	_, err = store.Get(ctx, "datasets/page_01.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "datasets_old/page_01.json"))
}
