package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/estimate"
)

// API is the subset of *dynamodb.Client the repository uses.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type estimateItem struct {
	ID        string  `dynamodbav:"id"`
	Kind      string  `dynamodbav:"kind"`
	Variant   string  `dynamodbav:"variant,omitempty"`
	TotalCost float64 `dynamodbav:"total_cost"`
	Request   string  `dynamodbav:"request"`
	Result    string  `dynamodbav:"result"`
	CreatedAt string  `dynamodbav:"created_at"`
}

// EstimateRepository archives estimates in a DynamoDB table.
//
// Table requirements:
//   - PK: id (string)
type EstimateRepository struct {
	ddb       API
	tableName string
	clock     clockwork.Clock
}

// NewEstimateRepository creates a repository over tableName.
func NewEstimateRepository(ddb API, tableName string, clock clockwork.Clock) *EstimateRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &EstimateRepository{ddb: ddb, tableName: tableName, clock: clock}
}

// Save stores an estimate under a new random ID and returns the stored record.
func (r *EstimateRepository) Save(ctx context.Context, rec estimate.Record) (estimate.Record, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = r.clock.Now().UTC()

	av, err := attributevalue.MarshalMap(toItem(rec))
	if err != nil {
		return estimate.Record{}, fmt.Errorf("marshal estimate: %w", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return estimate.Record{}, tagError("put estimate", err)
	}
	return rec, nil
}

// Get loads an archived estimate. Unknown IDs yield estimate.ErrRecordNotFound.
func (r *EstimateRepository) Get(ctx context.Context, id string) (estimate.Record, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return estimate.Record{}, tagError("get estimate", err)
	}
	if len(out.Item) == 0 {
		return estimate.Record{}, estimate.ErrRecordNotFound
	}

	var it estimateItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return estimate.Record{}, fmt.Errorf("unmarshal estimate: %w", err)
	}
	return fromItem(it)
}

func toItem(rec estimate.Record) estimateItem {
	return estimateItem{
		ID:        rec.ID,
		Kind:      rec.Kind,
		Variant:   rec.Variant,
		TotalCost: rec.TotalCost,
		Request:   string(rec.Request),
		Result:    string(rec.Result),
		CreatedAt: rec.CreatedAt.Format(time.RFC3339Nano),
	}
}

func fromItem(it estimateItem) (estimate.Record, error) {
	created, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return estimate.Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	return estimate.Record{
		ID:        it.ID,
		Kind:      it.Kind,
		Variant:   it.Variant,
		TotalCost: it.TotalCost,
		Request:   json.RawMessage(it.Request),
		Result:    json.RawMessage(it.Result),
		CreatedAt: created,
	}, nil
}

func tagError(op string, err error) error {
	var nf *types.ResourceNotFoundException
	if errors.As(err, &nf) {
		return &domain.Error{Kind: domain.KindTableNotFound, Op: op, Err: err}
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UnrecognizedClientException", "InvalidSignatureException", "AccessDeniedException", "ExpiredTokenException":
			return &domain.Error{Kind: domain.KindAuth, Op: op, Err: err}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
