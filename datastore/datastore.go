/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"github.com/suparena/tablestore/storagemodels"
)

type TableStore[T any] interface {
	Insert(ctx context.Context, record *T) error

	InsertBatch(ctx context.Context, records []*T) error

	Update(ctx context.Context, record *T) error

	ForceUpdate(ctx context.Context, record *T) error

	Delete(ctx context.Context, record *T) error

	ForceDelete(ctx context.Context, record *T) error

	GetRecord(ctx context.Context, partitionKey, rowKey string) (*T, error)

	GetByPartitionKey(ctx context.Context, partitionKey string) ([]T, error)

	GetByPartitionKeyPaged(ctx context.Context, partitionKey string, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error)

	GetByRowKey(ctx context.Context, rowKey string) ([]T, error)

	GetByRowKeyPaged(ctx context.Context, rowKey string, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error)

	GetAllRecords(ctx context.Context) ([]T, error)

	GetAllRecordsPaged(ctx context.Context, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error)

	GetRecordCount(ctx context.Context) (int64, error)

	Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]

	CreateTable(ctx context.Context) error

	TableExists(ctx context.Context) (bool, error)

	DeleteTable(ctx context.Context) error
}
