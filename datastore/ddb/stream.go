/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/tablestore/storagemodels"
)

// pageFetcher returns one page of raw items starting at startKey, along with
// the key of the next page. An empty next key ends the stream.
type pageFetcher func(ctx context.Context, startKey map[string]types.AttributeValue, limit int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error)

// Stream reads the whole table and delivers each record over the returned
// channel. Paging is strictly sequential; a page is fetched only after every
// item of the previous page has been delivered. Transient failures are
// retried by the client's retry policy, and the first unrecoverable error is
// delivered on the channel before it closes.
func (s *Store[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	resultCh := make(chan storagemodels.StreamResult[T], options.BufferSize)
	go s.streamWorker(ctx, s.scanFetcher(), options, resultCh)
	return resultCh
}

// streamWorker drives a page fetcher and fans its items out on the channel.
func (s *Store[T]) streamWorker(
	ctx context.Context,
	fetch pageFetcher,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult[T],
) {
	defer close(resultCh)

	var itemIndex int64
	var pageNumber int
	startTime := time.Now()

	reportProgress := func(lastKey map[string]types.AttributeValue) {
		if options.ProgressHandler == nil {
			return
		}
		progress := storagemodels.StreamProgress{
			ItemsProcessed: itemIndex,
			PagesProcessed: pageNumber,
			LastKey:        lastKey,
			StartTime:      startTime,
		}
		elapsed := time.Since(startTime).Seconds()
		if elapsed > 0 {
			progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
		}
		options.ProgressHandler(progress)
	}

	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return
		default:
		}

		items, lastKey, err := fetch(ctx, lastEvaluatedKey, options.PageSize)
		if err != nil {
			result := storagemodels.StreamResult[T]{
				Error: err,
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}
			select {
			case <-ctx.Done():
			case resultCh <- result:
			}
			return
		}

		pageNumber++

		for _, item := range items {
			result := processItem[T](item, itemIndex, pageNumber)
			itemIndex++

			select {
			case <-ctx.Done():
				return
			case resultCh <- result:
			}
		}

		// Report progress after each page
		reportProgress(lastKey)

		if len(lastKey) == 0 {
			break
		}
		lastEvaluatedKey = lastKey
	}

	// Final progress report
	reportProgress(nil)
}

// scanFetcher pages through the whole table.
func (s *Store[T]) scanFetcher() pageFetcher {
	return func(ctx context.Context, startKey map[string]types.AttributeValue, limit int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
		input := &sdk.ScanInput{
			TableName: aws.String(s.cfg.TableName),
			Limit:     aws.Int32(limit),
		}
		if len(startKey) > 0 {
			input.ExclusiveStartKey = startKey
		}
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, nil, fmt.Errorf("scan error: %w", err)
		}
		return out.Items, out.LastEvaluatedKey, nil
	}
}

// queryFetcher pages through the results of a prepared query.
func (s *Store[T]) queryFetcher(input *sdk.QueryInput) pageFetcher {
	return func(ctx context.Context, startKey map[string]types.AttributeValue, limit int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
		in := *input
		in.Limit = aws.Int32(limit)
		if len(startKey) > 0 {
			in.ExclusiveStartKey = startKey
		}
		out, err := s.client.Query(ctx, &in)
		if err != nil {
			return nil, nil, fmt.Errorf("query error: %w", err)
		}
		return out.Items, out.LastEvaluatedKey, nil
	}
}

// processItem converts a raw item to a typed result
func processItem[T any](item map[string]types.AttributeValue, index int64, pageNumber int) storagemodels.StreamResult[T] {
	meta := storagemodels.StreamMeta{
		Index:      index,
		PageNumber: pageNumber,
		Timestamp:  time.Now(),
	}

	// Make a copy of the raw item
	rawCopy := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		rawCopy[k] = v
	}

	var result T
	if err := attributevalue.UnmarshalMap(item, &result); err != nil {
		return storagemodels.StreamResult[T]{
			Error: fmt.Errorf("failed to unmarshal item: %w", err),
			Raw:   rawCopy,
			Meta:  meta,
		}
	}

	return storagemodels.StreamResult[T]{
		Item: result,
		Raw:  rawCopy,
		Meta: meta,
	}
}
