package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/fragsync/blobstore"
)

// Catalog resolves an asset id to the object that stores it.
type Catalog interface {
	Lookup(ctx context.Context, assetID string) (CatalogEntry, error)
}

// CatalogEntry describes one cataloged asset.
type CatalogEntry struct {
	// Key is the object key relative to the store prefix.
	Key string
	// Metadata holds plain metadata fields (filename, projectname, timestamp).
	Metadata map[string]string
}

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

const (
	attrAssetID   = "asset_id"
	attrObjectKey = "object_key"
)

// metadataAttrs are copied between items and CatalogEntry.Metadata.
var metadataAttrs = []string{"filename", "projectname", "timestamp"}

// DDBCatalog implements Catalog backed by a DynamoDB table.
//
// Table schema:
//   - Partition key: asset_id (string)
//   - object_key (string), filename, projectname, timestamp (string, optional)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name fragsync-assets \
//	  --attribute-definitions AttributeName=asset_id,AttributeType=S \
//	  --key-schema AttributeName=asset_id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type DDBCatalog struct {
	client    DDBClient
	tableName string
}

// NewDDBCatalog creates a new DynamoDB-backed catalog.
func NewDDBCatalog(client DDBClient, tableName string) *DDBCatalog {
	return &DDBCatalog{
		client:    client,
		tableName: tableName,
	}
}

// Lookup implements Catalog.
func (c *DDBCatalog) Lookup(ctx context.Context, assetID string) (CatalogEntry, error) {
	resp, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			attrAssetID: &types.AttributeValueMemberS{Value: assetID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return CatalogEntry{}, fmt.Errorf("failed to query DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return CatalogEntry{}, fmt.Errorf("asset %q not cataloged: %w", assetID, blobstore.ErrNotFound)
	}

	key, ok := stringAttr(resp.Item, attrObjectKey)
	if !ok || key == "" {
		return CatalogEntry{}, fmt.Errorf("asset %q: catalog item has no %s", assetID, attrObjectKey)
	}

	entry := CatalogEntry{Key: key, Metadata: make(map[string]string)}
	for _, name := range metadataAttrs {
		if v, ok := stringAttr(resp.Item, name); ok {
			entry.Metadata[name] = v
		}
	}
	return entry, nil
}

// Register writes or replaces the catalog item for assetID.
func (c *DDBCatalog) Register(ctx context.Context, assetID string, entry CatalogEntry) error {
	item := map[string]types.AttributeValue{
		attrAssetID:   &types.AttributeValueMemberS{Value: assetID},
		attrObjectKey: &types.AttributeValueMemberS{Value: entry.Key},
	}
	for _, name := range metadataAttrs {
		if v := entry.Metadata[name]; v != "" {
			item[name] = &types.AttributeValueMemberS{Value: v}
		}
	}

	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to write DynamoDB: %w", err)
	}
	return nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, bool) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return v.Value, true
}
