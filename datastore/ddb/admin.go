/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	tserrors "github.com/suparena/tablestore/errors"
)

// createTableTimeout bounds the wait for a new table to become active.
const createTableTimeout = 2 * time.Minute

// TableSchema describes the key layout of one table.
type TableSchema struct {
	TableName             string
	PartitionKeyAttribute string
	RowKeyAttribute       string
	RowKeyIndexName       string
}

func (t TableSchema) withDefaults() TableSchema {
	if t.PartitionKeyAttribute == "" {
		t.PartitionKeyAttribute = defaultPartitionKeyAttribute
	}
	if t.RowKeyAttribute == "" {
		t.RowKeyAttribute = defaultRowKeyAttribute
	}
	if t.RowKeyIndexName == "" {
		t.RowKeyIndexName = defaultRowKeyIndexName
	}
	return t
}

// Admin performs table-level operations that are not bound to a record type.
type Admin struct {
	client *sdk.Client
	logger *slog.Logger
}

// NewAdmin wraps a DynamoDB client for table administration. A nil logger
// falls back to slog.Default().
func NewAdmin(client *sdk.Client, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{client: client, logger: logger}
}

// CreateTable provisions a table with the partition/row key schema and the
// row-key index, then waits until it is active. Billing is on-demand.
func (a *Admin) CreateTable(ctx context.Context, schema TableSchema) error {
	if isBlank(schema.TableName) {
		return tserrors.NewValidationError("tableName", "must not be blank")
	}
	schema = schema.withDefaults()

	_, err := a.client.CreateTable(ctx, &sdk.CreateTableInput{
		TableName: aws.String(schema.TableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(schema.PartitionKeyAttribute), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(schema.RowKeyAttribute), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(schema.PartitionKeyAttribute), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(schema.RowKeyAttribute), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(schema.RowKeyIndexName),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(schema.RowKeyAttribute), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String(schema.PartitionKeyAttribute), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", schema.TableName, err)
	}

	waiter := sdk.NewTableExistsWaiter(a.client)
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{
		TableName: aws.String(schema.TableName),
	}, createTableTimeout); err != nil {
		return fmt.Errorf("table %s did not become active: %w", schema.TableName, err)
	}

	a.logger.Info("table created", "table", schema.TableName, "rowKeyIndex", schema.RowKeyIndexName)
	return nil
}

// TableExists reports whether the table exists.
func (a *Admin) TableExists(ctx context.Context, tableName string) (bool, error) {
	if isBlank(tableName) {
		return false, tserrors.NewValidationError("tableName", "must not be blank")
	}

	_, err := a.client.DescribeTable(ctx, &sdk.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err == nil {
		return true, nil
	}

	var nf *types.ResourceNotFoundException
	if errors.As(err, &nf) {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return false, nil
	}
	return false, fmt.Errorf("failed to describe table %s: %w", tableName, err)
}

// DeleteTable removes the table and every record in it.
func (a *Admin) DeleteTable(ctx context.Context, tableName string) error {
	if isBlank(tableName) {
		return tserrors.NewValidationError("tableName", "must not be blank")
	}

	_, err := a.client.DeleteTable(ctx, &sdk.DeleteTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", tableName, err)
	}

	a.logger.Info("table deleted", "table", tableName)
	return nil
}

// CreateTable provisions the store's table per its configuration.
func (s *Store[T]) CreateTable(ctx context.Context) error {
	return NewAdmin(s.client, nil).CreateTable(ctx, s.cfg.schema())
}

// TableExists reports whether the store's table exists.
func (s *Store[T]) TableExists(ctx context.Context) (bool, error) {
	return NewAdmin(s.client, nil).TableExists(ctx, s.cfg.TableName)
}

// DeleteTable removes the store's table and every record in it.
func (s *Store[T]) DeleteTable(ctx context.Context) error {
	return NewAdmin(s.client, nil).DeleteTable(ctx, s.cfg.TableName)
}
