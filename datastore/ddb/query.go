/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tserrors "github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// GetByPartitionKey returns every record in one partition, following server
// continuation until the result set is exhausted. Records come back in row
// key order.
func (s *Store[T]) GetByPartitionKey(ctx context.Context, partitionKey string) ([]T, error) {
	return s.RowsIn(partitionKey).All(ctx)
}

// GetByPartitionKeyPaged returns one page of a partition read. Pass an empty
// continuation token to start from the beginning and the token of the prior
// page to resume.
func (s *Store[T]) GetByPartitionKeyPaged(ctx context.Context, partitionKey string, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error) {
	return s.RowsIn(partitionKey).Page(ctx, pageSize, continuationToken)
}

// GetByRowKey returns every record carrying the given row key across all
// partitions, read through the row-key index.
func (s *Store[T]) GetByRowKey(ctx context.Context, rowKey string) ([]T, error) {
	if err := validateRowKey(rowKey); err != nil {
		return nil, err
	}

	paginator := sdk.NewQueryPaginator(s.client, s.rowKeyQueryInput(rowKey))
	var results []T
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		page, err := unmarshalItems[T](out.Items)
		if err != nil {
			return nil, err
		}
		results = append(results, page...)
	}
	return results, nil
}

// GetByRowKeyPaged returns one page of a row-key index read.
func (s *Store[T]) GetByRowKeyPaged(ctx context.Context, rowKey string, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error) {
	if err := validateRowKey(rowKey); err != nil {
		return nil, err
	}
	if err := validatePageSize(pageSize); err != nil {
		return nil, err
	}
	startKey, err := decodeContinuationToken(continuationToken)
	if err != nil {
		return nil, err
	}

	input := s.rowKeyQueryInput(rowKey)
	input.Limit = aws.Int32(pageSize)
	input.ExclusiveStartKey = startKey

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return pageResult[T](out.Items, out.LastEvaluatedKey)
}

// GetAllRecords returns every record in the table, following server
// continuation until the result set is exhausted.
func (s *Store[T]) GetAllRecords(ctx context.Context) ([]T, error) {
	paginator := sdk.NewScanPaginator(s.client, &sdk.ScanInput{
		TableName: aws.String(s.cfg.TableName),
	})
	var results []T
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		page, err := unmarshalItems[T](out.Items)
		if err != nil {
			return nil, err
		}
		results = append(results, page...)
	}
	return results, nil
}

// GetAllRecordsPaged returns one page of a full-table read.
func (s *Store[T]) GetAllRecordsPaged(ctx context.Context, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error) {
	if err := validatePageSize(pageSize); err != nil {
		return nil, err
	}
	startKey, err := decodeContinuationToken(continuationToken)
	if err != nil {
		return nil, err
	}

	out, err := s.client.Scan(ctx, &sdk.ScanInput{
		TableName:         aws.String(s.cfg.TableName),
		Limit:             aws.Int32(pageSize),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	return pageResult[T](out.Items, out.LastEvaluatedKey)
}

// GetRecordCount pages through the full table in counting mode and sums the
// per-page counts.
func (s *Store[T]) GetRecordCount(ctx context.Context) (int64, error) {
	paginator := sdk.NewScanPaginator(s.client, &sdk.ScanInput{
		TableName: aws.String(s.cfg.TableName),
		Select:    types.SelectCount,
	})
	var total int64
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("scan error: %w", err)
		}
		total += int64(out.Count)
	}
	return total, nil
}

// partitionQueryInput builds the base query for one partition.
func (s *Store[T]) partitionQueryInput(partitionKey string) *sdk.QueryInput {
	return &sdk.QueryInput{
		TableName:                aws.String(s.cfg.TableName),
		KeyConditionExpression:   aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{"#pk": s.cfg.PartitionKeyAttribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: partitionKey},
		},
	}
}

// rowKeyQueryInput builds the base query against the row-key index.
func (s *Store[T]) rowKeyQueryInput(rowKey string) *sdk.QueryInput {
	return &sdk.QueryInput{
		TableName:                aws.String(s.cfg.TableName),
		IndexName:                aws.String(s.cfg.RowKeyIndexName),
		KeyConditionExpression:   aws.String("#rk = :rk"),
		ExpressionAttributeNames: map[string]string{"#rk": s.cfg.RowKeyAttribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rk": &types.AttributeValueMemberS{Value: rowKey},
		},
	}
}

// unmarshalItems converts raw items into typed records.
func unmarshalItems[T any](items []map[string]types.AttributeValue) ([]T, error) {
	results := make([]T, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return results, nil
}

// pageResult converts one server page into a PagedResult, serializing the
// last evaluated key into the continuation token.
func pageResult[T any](items []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue) (*storagemodels.PagedResult[T], error) {
	records, err := unmarshalItems[T](items)
	if err != nil {
		return nil, err
	}
	token, err := encodeContinuationToken(lastKey)
	if err != nil {
		return nil, err
	}
	return storagemodels.NewPagedResult(records, token), nil
}

func validateRowKey(rowKey string) error {
	if isBlank(rowKey) {
		return tserrors.NewValidationError("rowKey", "must not be blank")
	}
	return nil
}

func validatePartitionKey(partitionKey string) error {
	if isBlank(partitionKey) {
		return tserrors.NewValidationError("partitionKey", "must not be blank")
	}
	return nil
}

func validatePageSize(pageSize int32) error {
	if pageSize < 1 {
		return tserrors.NewValidationError("pageSize", "must be at least 1")
	}
	return nil
}
