package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RunMarkerStore records completed pipeline runs in DynamoDB using
// conditional writes. A run (one full fetch/validate/rank cycle over a
// dataset) is marked exactly once; a second writer racing on the same run
// id observes ErrRunAlreadyMarked and can skip its redundant work.
//
// Table schema:
//   - Partition key: dataset (string) - logical dataset name
//   - Sort key: run_id (string) - caller-chosen run identifier
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name rankgo-runs \
//	  --attribute-definitions AttributeName=dataset,AttributeType=S AttributeName=run_id,AttributeType=S \
//	  --key-schema AttributeName=dataset,KeyType=HASH AttributeName=run_id,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type RunMarkerStore struct {
	client    DDBClient
	tableName string
	dataset   string
}

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrRunAlreadyMarked is returned when the run id was already committed by
// another writer.
var ErrRunAlreadyMarked = errors.New("run already marked")

// NewRunMarkerStore creates a run marker store for the given dataset.
func NewRunMarkerStore(client DDBClient, tableName, dataset string) *RunMarkerStore {
	return &RunMarkerStore{
		client:    client,
		tableName: tableName,
		dataset:   dataset,
	}
}

// Mark records the run as complete. resultsName is the artifact name of the
// run's result set, so a later reader can resolve the output without
// re-running the pipeline.
func (s *RunMarkerStore) Mark(ctx context.Context, runID, resultsName string) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"dataset": &types.AttributeValueMemberS{Value: s.dataset},
			"run_id":  &types.AttributeValueMemberS{Value: runID},
			"results": &types.AttributeValueMemberS{Value: resultsName},
		},
		ConditionExpression: aws.String("attribute_not_exists(run_id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrRunAlreadyMarked
		}
		return fmt.Errorf("failed to mark run in DynamoDB: %w", err)
	}
	return nil
}

// Lookup resolves a previously marked run to its results artifact name.
// The second return value reports whether the run was found.
func (s *RunMarkerStore) Lookup(ctx context.Context, runID string) (string, bool, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"dataset": &types.AttributeValueMemberS{Value: s.dataset},
			"run_id":  &types.AttributeValueMemberS{Value: runID},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to query DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return "", false, nil
	}
	resultsAttr, ok := resp.Item["results"].(*types.AttributeValueMemberS)
	if !ok {
		return "", false, errors.New("invalid results attribute in DynamoDB")
	}
	return resultsAttr.Value, true, nil
}

// Unmark removes a run marker, allowing the run to be repeated.
func (s *RunMarkerStore) Unmark(ctx context.Context, runID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"dataset": &types.AttributeValueMemberS{Value: s.dataset},
			"run_id":  &types.AttributeValueMemberS{Value: runID},
		},
	})
	return err
}
