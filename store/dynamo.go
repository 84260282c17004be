package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
)

const (
	attrID  = "id"
	attrDoc = "doc"
)

// DynamoAPI is the part of the DynamoDB client the store uses.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Dynamo stores items in a DynamoDB table with a string partition key "id". The item itself
// is kept as a JSON document in the "doc" attribute. Conditional writes take the place of a
// lock: Insert never overwrites and Update never creates.
type Dynamo struct {
	client DynamoAPI
	table  string
	nextID IDFunc
}

// NewDynamo creates a store on table. New ids are random UUIDs.
func NewDynamo(client DynamoAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table, nextID: UUIDs()}
}

// All scans the table. Items are returned ordered by id.
func (d *Dynamo) All(ctx context.Context) ([]Item, error) {
	pages := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName:      aws.String(d.table),
		ConsistentRead: aws.Bool(true),
	})

	var out []Item
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "scan items")
		}

		for _, av := range page.Items {
			it, err := decodeItem(av)
			if err != nil {
				return nil, err
			}
			out = append(out, it)
		}
	}

	slices.SortFunc(out, func(a, b Item) int { return strings.Compare(a.ID(), b.ID()) })
	return out, nil
}

func (d *Dynamo) Get(ctx context.Context, id string) (Item, error) {
	res, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            map[string]types.AttributeValue{attrID: &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get item %q", id)
	}

	if len(res.Item) == 0 {
		return nil, ErrNotFound
	}

	return decodeItem(res.Item)
}

func (d *Dynamo) Insert(ctx context.Context, item Item) (Item, error) {
	stored := item.withID(d.nextID())
	if err := d.put(ctx, stored, "attribute_not_exists(id)"); err != nil {
		return nil, errors.Wrap(err, "insert item")
	}

	return stored, nil
}

func (d *Dynamo) Update(ctx context.Context, id string, item Item) (Item, error) {
	stored := item.withID(id)

	err := d.put(ctx, stored, "attribute_exists(id)")
	if isConditionFailed(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "update item %q", id)
	}

	return stored, nil
}

func (d *Dynamo) put(ctx context.Context, it Item, cond string) error {
	doc, err := json.Marshal(it)
	if err != nil {
		return errors.Wrap(err, "encode item")
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]types.AttributeValue{
			attrID:  &types.AttributeValueMemberS{Value: it.ID()},
			attrDoc: &types.AttributeValueMemberS{Value: string(doc)},
		},
		ConditionExpression: aws.String(cond),
	})

	return err
}

func decodeItem(av map[string]types.AttributeValue) (Item, error) {
	doc, ok := av[attrDoc].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("stored item has no document attribute")
	}

	var it Item
	dec := json.NewDecoder(strings.NewReader(doc.Value))
	dec.UseNumber()
	if err := dec.Decode(&it); err != nil {
		return nil, errors.Wrap(err, "decode stored item")
	}

	return it, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

var _ Store = &Dynamo{}
