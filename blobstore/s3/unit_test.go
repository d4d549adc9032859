package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func keyIs(key string) any {
	return mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
		return *input.Bucket == "test-bucket" && *input.Key == key
	})
}

func getKeyIs(key string) any {
	return mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Bucket == "test-bucket" && *input.Key == key
	})
}

func TestStore_Fetch(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")
	data := []byte("compressed-bytes")

	mockClient.On("HeadObject", mock.Anything, keyIs("prefix/proj1/file1")).Return(&s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{"filename": "a.ifc", "projectname": "P"},
	}, nil).Once()
	mockClient.On("GetObject", mock.Anything, getKeyIs("prefix/proj1/file1")).Return(&s3.GetObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		Body:          io.NopCloser(bytes.NewReader(data)),
	}, nil).Once()

	obj, err := store.Fetch(context.Background(), model.AssetReference{ID: "proj1/file1"})
	require.NoError(t, err)
	assert.Equal(t, data, obj.Data)
	assert.Equal(t, "a.ifc", obj.Header.Get("x-metadata-filename"))
	assert.Equal(t, "P", obj.Header.Get("x-metadata-projectname"))
	mockClient.AssertExpectations(t)
}

func TestStore_FetchNotFound(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	mockClient.On("HeadObject", mock.Anything, keyIs("prefix/missing")).Return(nil, &types.NotFound{}).Once()

	_, err := store.Fetch(context.Background(), model.AssetReference{ID: "missing"})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

type mockDDBClient struct {
	mu    sync.Mutex
	items map[string]map[string]ddbtypes.AttributeValue
	err   error
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]ddbtypes.AttributeValue)}
}

func (m *mockDDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	id := params.Key[attrAssetID].(*ddbtypes.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: m.items[id]}, nil
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	id := params.Item[attrAssetID].(*ddbtypes.AttributeValueMemberS).Value
	m.items[id] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDDBCatalog_RegisterLookup(t *testing.T) {
	ddb := newMockDDBClient()
	catalog := NewDDBCatalog(ddb, "fragsync-assets")
	ctx := context.Background()

	_, err := catalog.Lookup(ctx, "proj1/file1")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, catalog.Register(ctx, "proj1/file1", CatalogEntry{
		Key:      "2024/file1frag.gz",
		Metadata: map[string]string{"filename": "file1.ifc", "timestamp": "2024-01-01T00:00:00Z"},
	}))

	entry, err := catalog.Lookup(ctx, "proj1/file1")
	require.NoError(t, err)
	assert.Equal(t, "2024/file1frag.gz", entry.Key)
	assert.Equal(t, "file1.ifc", entry.Metadata["filename"])
	_, hasProject := entry.Metadata["projectname"]
	assert.False(t, hasProject)
}

func TestDDBCatalog_Error(t *testing.T) {
	ddb := newMockDDBClient()
	ddb.err = errors.New("throttled")
	catalog := NewDDBCatalog(ddb, "fragsync-assets")

	_, err := catalog.Lookup(context.Background(), "x")
	assert.ErrorContains(t, err, "throttled")
}

func TestStore_FetchThroughCatalog(t *testing.T) {
	ddb := newMockDDBClient()
	catalog := NewDDBCatalog(ddb, "fragsync-assets")
	require.NoError(t, catalog.Register(context.Background(), "proj1/file1", CatalogEntry{
		Key:      "objects/abc.gz",
		Metadata: map[string]string{"filename": "from-catalog.ifc", "projectname": "P"},
	}))

	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "")
	store.SetCatalog(catalog)
	data := []byte("zz")

	mockClient.On("HeadObject", mock.Anything, keyIs("objects/abc.gz")).Return(&s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{"filename": "from-object.ifc"},
	}, nil).Once()
	mockClient.On("GetObject", mock.Anything, getKeyIs("objects/abc.gz")).Return(&s3.GetObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		Body:          io.NopCloser(bytes.NewReader(data)),
	}, nil).Once()

	obj, err := store.Fetch(context.Background(), model.AssetReference{ID: "proj1/file1"})
	require.NoError(t, err)
	assert.Equal(t, "from-object.ifc", obj.Header.Get("x-metadata-filename"))
	assert.Equal(t, "P", obj.Header.Get("x-metadata-projectname"))
}
