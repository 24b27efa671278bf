/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"time"

	"github.com/suparena/tablestore/storagemodels"
)

// TimeRangeQuery provides time-window reads over partitions whose row keys
// are RFC 3339 timestamps, a common layout for event-style records.
type TimeRangeQuery[T any] struct {
	*RowRangeQuery[T]
}

// RowsInTimeRange starts a time-window read over one partition.
func (s *Store[T]) RowsInTimeRange(partitionKey string) *TimeRangeQuery[T] {
	return &TimeRangeQuery[T]{RowRangeQuery: s.RowsIn(partitionKey)}
}

// After narrows the window to records after the timestamp.
func (q *TimeRangeQuery[T]) After(t time.Time) *TimeRangeQuery[T] {
	q.WithRowKeyGreaterThan(t.UTC().Format(time.RFC3339))
	return q
}

// Before narrows the window to records before the timestamp.
func (q *TimeRangeQuery[T]) Before(t time.Time) *TimeRangeQuery[T] {
	q.WithRowKeyLessThan(t.UTC().Format(time.RFC3339))
	return q
}

// Between narrows the window to records between two timestamps, inclusive.
func (q *TimeRangeQuery[T]) Between(start, end time.Time) *TimeRangeQuery[T] {
	q.WithRowKeyBetween(start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	return q
}

// InLastHours narrows the window to the last N hours.
func (q *TimeRangeQuery[T]) InLastHours(hours int) *TimeRangeQuery[T] {
	return q.After(time.Now().Add(-time.Duration(hours) * time.Hour))
}

// InLastDays narrows the window to the last N days.
func (q *TimeRangeQuery[T]) InLastDays(days int) *TimeRangeQuery[T] {
	return q.After(time.Now().AddDate(0, 0, -days))
}

// Today narrows the window to the current day.
func (q *TimeRangeQuery[T]) Today() *TimeRangeQuery[T] {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return q.Between(startOfDay, startOfDay.Add(24*time.Hour))
}

// Latest returns results in descending time order (newest first).
func (q *TimeRangeQuery[T]) Latest() *TimeRangeQuery[T] {
	q.Descending()
	return q
}

// Oldest returns results in ascending time order (oldest first).
func (q *TimeRangeQuery[T]) Oldest() *TimeRangeQuery[T] {
	q.Ascending()
	return q
}

// Common time-based read patterns as convenience methods

// LatestRecords returns one page of the newest records in a partition.
func (s *Store[T]) LatestRecords(ctx context.Context, partitionKey string, pageSize int32) (*storagemodels.PagedResult[T], error) {
	return s.RowsInTimeRange(partitionKey).Latest().Page(ctx, pageSize, "")
}

// RecordsSince returns all records in a partition newer than the timestamp,
// in chronological order.
func (s *Store[T]) RecordsSince(ctx context.Context, partitionKey string, since time.Time) ([]T, error) {
	return s.RowsInTimeRange(partitionKey).After(since).All(ctx)
}
