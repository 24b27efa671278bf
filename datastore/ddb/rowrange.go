/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/tablestore/storagemodels"
)

// RowRangeQuery provides a fluent interface for row-key range reads within
// one partition.
type RowRangeQuery[T any] struct {
	store      *Store[T]
	partition  string
	rkValue    string
	rkUpper    string
	rkOperator string // "=", "begins_with", ">", "<", ">=", "<=", "BETWEEN"
	descending bool
	err        error // first construction error, surfaced at execution
}

// RowsIn starts a row-key range read over one partition.
func (s *Store[T]) RowsIn(partitionKey string) *RowRangeQuery[T] {
	q := &RowRangeQuery[T]{store: s, partition: partitionKey}
	q.err = validatePartitionKey(partitionKey)
	return q
}

// WithRowKey narrows the range to one exact row key.
func (q *RowRangeQuery[T]) WithRowKey(value string) *RowRangeQuery[T] {
	q.rkValue = value
	q.rkOperator = "="
	return q
}

// WithRowKeyPrefix narrows the range to row keys starting with the prefix.
func (q *RowRangeQuery[T]) WithRowKeyPrefix(prefix string) *RowRangeQuery[T] {
	q.rkValue = prefix
	q.rkOperator = "begins_with"
	return q
}

// WithRowKeyGreaterThan narrows the range to row keys after the value.
func (q *RowRangeQuery[T]) WithRowKeyGreaterThan(value string) *RowRangeQuery[T] {
	q.rkValue = value
	q.rkOperator = ">"
	return q
}

// WithRowKeyLessThan narrows the range to row keys before the value.
func (q *RowRangeQuery[T]) WithRowKeyLessThan(value string) *RowRangeQuery[T] {
	q.rkValue = value
	q.rkOperator = "<"
	return q
}

// WithRowKeyAtLeast narrows the range to row keys at or after the value.
func (q *RowRangeQuery[T]) WithRowKeyAtLeast(value string) *RowRangeQuery[T] {
	q.rkValue = value
	q.rkOperator = ">="
	return q
}

// WithRowKeyAtMost narrows the range to row keys at or before the value.
func (q *RowRangeQuery[T]) WithRowKeyAtMost(value string) *RowRangeQuery[T] {
	q.rkValue = value
	q.rkOperator = "<="
	return q
}

// WithRowKeyBetween narrows the range to row keys between start and end,
// inclusive.
func (q *RowRangeQuery[T]) WithRowKeyBetween(start, end string) *RowRangeQuery[T] {
	q.rkValue = start
	q.rkUpper = end
	q.rkOperator = "BETWEEN"
	return q
}

// Descending reverses the traversal to descending row-key order.
func (q *RowRangeQuery[T]) Descending() *RowRangeQuery[T] {
	q.descending = true
	return q
}

// Ascending restores the default ascending row-key order.
func (q *RowRangeQuery[T]) Ascending() *RowRangeQuery[T] {
	q.descending = false
	return q
}

// buildInput constructs the final query input for this range.
func (q *RowRangeQuery[T]) buildInput() (*sdk.QueryInput, error) {
	if q.err != nil {
		return nil, q.err
	}

	input := q.store.partitionQueryInput(q.partition)
	if q.rkOperator != "" {
		input.ExpressionAttributeNames["#rk"] = q.store.cfg.RowKeyAttribute

		condition := *input.KeyConditionExpression
		switch q.rkOperator {
		case "=", ">", "<", ">=", "<=":
			condition += fmt.Sprintf(" AND #rk %s :rk", q.rkOperator)
			input.ExpressionAttributeValues[":rk"] = &types.AttributeValueMemberS{Value: q.rkValue}
		case "begins_with":
			condition += " AND begins_with(#rk, :rk)"
			input.ExpressionAttributeValues[":rk"] = &types.AttributeValueMemberS{Value: q.rkValue}
		case "BETWEEN":
			condition += " AND #rk BETWEEN :rk AND :rk2"
			input.ExpressionAttributeValues[":rk"] = &types.AttributeValueMemberS{Value: q.rkValue}
			input.ExpressionAttributeValues[":rk2"] = &types.AttributeValueMemberS{Value: q.rkUpper}
		}
		input.KeyConditionExpression = aws.String(condition)
	}
	if q.descending {
		input.ScanIndexForward = aws.Bool(false)
	}
	return input, nil
}

// All executes the range read, following server continuation until the
// result set is exhausted.
func (q *RowRangeQuery[T]) All(ctx context.Context) ([]T, error) {
	input, err := q.buildInput()
	if err != nil {
		return nil, err
	}

	paginator := sdk.NewQueryPaginator(q.store.client, input)
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

// Page executes exactly one page of the range read.
func (q *RowRangeQuery[T]) Page(ctx context.Context, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error) {
	input, err := q.buildInput()
	if err != nil {
		return nil, err
	}
	if err := validatePageSize(pageSize); err != nil {
		return nil, err
	}
	startKey, err := decodeContinuationToken(continuationToken)
	if err != nil {
		return nil, err
	}

	input.Limit = aws.Int32(pageSize)
	input.ExclusiveStartKey = startKey

	out, err := q.store.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return pageResult[T](out.Items, out.LastEvaluatedKey)
}

// Stream executes the range read as a stream.
func (q *RowRangeQuery[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	input, err := q.buildInput()
	if err != nil {
		ch := make(chan storagemodels.StreamResult[T], 1)
		ch <- storagemodels.StreamResult[T]{Error: err}
		close(ch)
		return ch
	}

	resultCh := make(chan storagemodels.StreamResult[T], options.BufferSize)
	go q.store.streamWorker(ctx, q.store.queryFetcher(input), options, resultCh)
	return resultCh
}
