//go:generate go run go.uber.org/mock/mockgen -source=dynamodb.go -destination=../mocks/mock_dynamodb.go -package=mocks
package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the part of the DynamoDB client used by DynamoDBStore.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type DynamoDBStore struct {
	client DynamoDBAPI
	opts   Options
}

// NewDynamoDBStore wraps a client that is expected to live as long as the process.
func NewDynamoDBStore(client DynamoDBAPI, opts Options) *DynamoDBStore {
	return &DynamoDBStore{client: client, opts: opts}
}

func (s *DynamoDBStore) PutItem(ctx context.Context, item Item) error {
	if _, err := item.key(s.opts.KeyAttribute); err != nil {
		return err
	}
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.opts.Table),
		Item:      toAttributeValues(item),
	})
	if err != nil {
		return fmt.Errorf("PutItem: %w", err)
	}
	return nil
}

// ScanAll follows LastEvaluatedKey until DynamoDB reports the last page.
func (s *DynamoDBStore) ScanAll(ctx context.Context) ([]Item, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(s.opts.Table)}
	if s.opts.PageSize > 0 {
		input.Limit = aws.Int32(int32(s.opts.PageSize))
	}

	items := []Item{}
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		for _, av := range page.Items {
			item, err := fromAttributeValues(av)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func toAttributeValues(item Item) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for name, av := range item {
		switch av.Type {
		case TypeNumber:
			out[name] = &types.AttributeValueMemberN{Value: av.Value}
		default:
			out[name] = &types.AttributeValueMemberS{Value: av.Value}
		}
	}
	return out
}

func fromAttributeValues(in map[string]types.AttributeValue) (Item, error) {
	item := make(Item, len(in))
	for name, av := range in {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			item[name] = AttributeValue{Type: TypeString, Value: v.Value}
		case *types.AttributeValueMemberN:
			item[name] = AttributeValue{Type: TypeNumber, Value: v.Value}
		default:
			return nil, fmt.Errorf("%s is %T: %w", name, av, ErrAttributeType)
		}
	}
	return item, nil
}
