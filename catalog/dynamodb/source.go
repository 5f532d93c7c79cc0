// Package dynamodb reads the version catalog from a DynamoDB table.
//
// Table schema:
//   - Partition key: catalog (string) - the catalog name
//   - Sort key: position (number) - catalog order, oldest first
//   - Attributes: version_name, version_number, data_file (strings)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name modelcompat-catalog \
//	  --attribute-definitions AttributeName=catalog,AttributeType=S AttributeName=position,AttributeType=N \
//	  --key-schema AttributeName=catalog,KeyType=HASH AttributeName=position,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/modelcompat/catalog"
	"github.com/hupe1980/modelcompat/model"
)

// Attribute names.
const (
	AttrCatalog  = "catalog"
	AttrPosition = "position"
	AttrName     = "version_name"
	AttrLabel    = "version_number"
	AttrDataFile = "data_file"
)

// MaxPublishVersions is the largest catalog Publish writes in one
// transaction.
const MaxPublishVersions = 100

// ErrConcurrentModification is returned by Publish when a position is
// already taken.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// ErrCatalogTooLarge is returned by Publish for more than
// MaxPublishVersions versions.
var ErrCatalogTooLarge = errors.New("catalog too large for a single transaction")

// Client is the subset of the DynamoDB API used by Source.
type Client interface {
	dynamodb.QueryAPIClient
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Source implements catalog.Source over a DynamoDB table.
type Source struct {
	client    Client
	tableName string
	name      string
}

var _ catalog.Source = (*Source)(nil)

// NewSource creates a source for the catalog called name in tableName.
func NewSource(client Client, tableName, name string) *Source {
	return &Source{
		client:    client,
		tableName: tableName,
		name:      name,
	}
}

// New creates a Source using the default AWS configuration chain.
// An empty region keeps the region from the environment.
func New(ctx context.Context, tableName, name, region string) (*Source, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return NewSource(dynamodb.NewFromConfig(cfg), tableName, name), nil
}

// Load queries every item of the catalog in position order.
func (s *Source) Load(ctx context.Context) (*catalog.Catalog, error) {
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("#c = :name"),
		ExpressionAttributeNames: map[string]string{
			"#c": AttrCatalog,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: s.name},
		},
		ScanIndexForward: aws.Bool(true),
	})

	var versions []model.VersionDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
		}
		for _, item := range page.Items {
			v, err := decodeItem(item)
			if err != nil {
				return nil, err
			}
			versions = append(versions, v)
		}
	}

	return catalog.New(versions), nil
}

// Publish writes versions at positions 0..n-1 in a single transaction.
// Either every version is written or none is. Existing positions are never
// overwritten.
func (s *Source) Publish(ctx context.Context, versions []model.VersionDescriptor) error {
	if len(versions) == 0 {
		return nil
	}
	if len(versions) > MaxPublishVersions {
		return fmt.Errorf("%d versions: %w", len(versions), ErrCatalogTooLarge)
	}

	items := make([]types.TransactWriteItem, 0, len(versions))
	for i, v := range versions {
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.tableName),
				Item: map[string]types.AttributeValue{
					AttrCatalog:  &types.AttributeValueMemberS{Value: s.name},
					AttrPosition: &types.AttributeValueMemberN{Value: strconv.Itoa(i)},
					AttrName:     &types.AttributeValueMemberS{Value: v.DisplayName},
					AttrLabel:    &types.AttributeValueMemberS{Value: v.VersionLabel},
					AttrDataFile: &types.AttributeValueMemberS{Value: v.SourceID},
				},
				ConditionExpression: aws.String("attribute_not_exists(#p)"),
				ExpressionAttributeNames: map[string]string{
					"#p": AttrPosition,
				},
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for i, reason := range canceled.CancellationReasons {
				if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
					return fmt.Errorf("position %d: %w", i, ErrConcurrentModification)
				}
			}
		}
		return fmt.Errorf("failed to publish catalog to DynamoDB: %w", err)
	}
	return nil
}

func decodeItem(item map[string]types.AttributeValue) (model.VersionDescriptor, error) {
	var v model.VersionDescriptor
	var err error
	if v.DisplayName, err = stringAttr(item, AttrName); err != nil {
		return v, err
	}
	if v.VersionLabel, err = stringAttr(item, AttrLabel); err != nil {
		return v, err
	}
	if v.SourceID, err = stringAttr(item, AttrDataFile); err != nil {
		return v, err
	}
	return v, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	attr, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("invalid %s attribute in DynamoDB", name)
	}
	return attr.Value, nil
}
