/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	tserrors "github.com/suparena/tablestore/errors"
)

// maxBatchSize is the largest number of records one atomic batch may carry,
// matching the TransactWriteItems limit.
const maxBatchSize = 100

// batchChunk is one atomic unit of a bulk insert: records sharing a partition
// key, at most maxBatchSize of them. refresh carries the per-record token
// updates to apply once the chunk commits.
type batchChunk struct {
	partitionKey string
	index        int
	items        []map[string]types.AttributeValue
	refresh      []func()
}

// InsertBatch stores the given records, grouping them by partition key and
// committing one atomic batch per chunk of at most maxBatchSize records.
// Atomicity holds within a chunk only: when a chunk fails, chunks committed
// before it stay committed, later chunks are not attempted, and the returned
// BatchError names the failed partition and chunk.
func (s *Store[T]) InsertBatch(ctx context.Context, records []*T) error {
	if len(records) == 0 {
		return tserrors.NewValidationError("records", "must not be empty")
	}

	chunks, err := s.chunkRecords(records)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		if err := s.writeChunk(ctx, chunk); err != nil {
			return tserrors.NewBatchError(chunk.partitionKey, chunk.index, err)
		}
		for _, refresh := range chunk.refresh {
			refresh()
		}
	}
	return nil
}

// chunkRecords groups records by partition key, orders the groups by key, and
// splits each group into chunks of at most maxBatchSize items.
func (s *Store[T]) chunkRecords(records []*T) ([]batchChunk, error) {
	type pendingItem struct {
		item    map[string]types.AttributeValue
		refresh func()
	}

	groups := make(map[string][]pendingItem)
	for i, record := range records {
		if record == nil {
			return nil, tserrors.NewValidationError("records", fmt.Sprintf("record %d is nil", i))
		}
		ik, err := keysForRecord(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		etag := uuid.NewString()
		ik, rec := ik, record
		groups[ik.pk] = append(groups[ik.pk], pendingItem{
			item:    s.buildItem(ik, etag),
			refresh: func() { writeETag(ik, rec, etag) },
		})
	}

	partitionKeys := make([]string, 0, len(groups))
	for pk := range groups {
		partitionKeys = append(partitionKeys, pk)
	}
	sort.Strings(partitionKeys)

	var chunks []batchChunk
	for _, pk := range partitionKeys {
		pending := groups[pk]
		for index := 0; len(pending) > 0; index++ {
			n := len(pending)
			if n > maxBatchSize {
				n = maxBatchSize
			}
			chunk := batchChunk{partitionKey: pk, index: index}
			for _, p := range pending[:n] {
				chunk.items = append(chunk.items, p.item)
				chunk.refresh = append(chunk.refresh, p.refresh)
			}
			chunks = append(chunks, chunk)
			pending = pending[n:]
		}
	}
	return chunks, nil
}

// writeChunk commits one chunk atomically. Each put is conditional on the
// identity being free, so re-inserting an existing record cancels the whole
// chunk.
func (s *Store[T]) writeChunk(ctx context.Context, chunk batchChunk) error {
	actions := make([]types.TransactWriteItem, 0, len(chunk.items))
	for _, item := range chunk.items {
		actions = append(actions, types.TransactWriteItem{
			Put: &types.Put{
				TableName:                aws.String(s.cfg.TableName),
				Item:                     item,
				ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
				ExpressionAttributeNames: map[string]string{"#pk": s.cfg.PartitionKeyAttribute},
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &sdk.TransactWriteItemsInput{
		TransactItems: actions,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for _, reason := range tce.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return tserrors.NewAlreadyExistsError(typeName[T](), chunk.partitionKey)
				}
			}
		}
		return fmt.Errorf("TransactWriteItems failed: %w", err)
	}
	return nil
}
