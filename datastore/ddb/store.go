/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	tserrors "github.com/suparena/tablestore/errors"
)

// Store implements datastore.TableStore[T] on top of one DynamoDB table.
// Records are addressed by a (partition key, row key) pair derived from the
// record through its registered key map, and every write rotates the
// record's concurrency token.
type Store[T any] struct {
	client *sdk.Client
	cfg    Config
}

// New binds a store for type T to an existing DynamoDB client.
func New[T any](client *sdk.Client, cfg Config) (*Store[T], error) {
	cfg.normalize()
	if client == nil {
		return nil, tserrors.NewValidationError("client", "must not be nil")
	}
	if err := cfg.validateTable(); err != nil {
		return nil, err
	}
	return &Store[T]{client: client, cfg: cfg}, nil
}

// NewFromConfig constructs a store for type T, dialing a new DynamoDB client
// from the configuration.
func NewFromConfig[T any](ctx context.Context, cfg Config) (*Store[T], error) {
	cfg.normalize()
	if err := cfg.validateTable(); err != nil {
		return nil, err
	}
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return &Store[T]{client: client, cfg: cfg}, nil
}

// Insert stores a new record. It fails with an already-exists error when the
// record's (partition key, row key) identity is taken.
func (s *Store[T]) Insert(ctx context.Context, record *T) error {
	if record == nil {
		return tserrors.NewValidationError("record", "must not be nil")
	}
	ik, err := keysForRecord(record)
	if err != nil {
		return err
	}

	etag := uuid.NewString()
	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:                &s.cfg.TableName,
		Item:                     s.buildItem(ik, etag),
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": s.cfg.PartitionKeyAttribute},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return tserrors.NewAlreadyExistsError(typeName[T](), ik.pk+"/"+ik.rk)
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}

	writeETag(ik, record, etag)
	return nil
}

// GetRecord retrieves a single record by its partition and row key.
// It returns (nil, nil) when no record exists under that identity.
func (s *Store[T]) GetRecord(ctx context.Context, partitionKey, rowKey string) (*T, error) {
	if err := validatePartitionKey(partitionKey); err != nil {
		return nil, err
	}
	if err := validateRowKey(rowKey); err != nil {
		return nil, err
	}

	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.cfg.TableName,
		Key:       s.key(partitionKey, rowKey),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		// Not found: return nil, nil
		return nil, nil
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Update merges the record's attributes into the stored item, guarded by the
// record's concurrency token. It fails with a not-found error when the record
// does not exist and a condition-failed error when the token is stale.
func (s *Store[T]) Update(ctx context.Context, record *T) error {
	return s.update(ctx, record, false)
}

// ForceUpdate merges the record's attributes into the stored item without
// checking the concurrency token. The record must still exist.
func (s *Store[T]) ForceUpdate(ctx context.Context, record *T) error {
	return s.update(ctx, record, true)
}

func (s *Store[T]) update(ctx context.Context, record *T, force bool) error {
	if record == nil {
		return tserrors.NewValidationError("record", "must not be nil")
	}
	ik, err := keysForRecord(record)
	if err != nil {
		return err
	}

	expected := recordETag(ik)
	if !force && expected == "" {
		return tserrors.NewValidationError("etag", "record has no concurrency token; fetch it first or use ForceUpdate")
	}

	etag := uuid.NewString()
	expr, names, values := s.buildUpdateExpression(ik, etag)

	condition := "attribute_exists(#pk)"
	if !force {
		condition += " AND #etag = :expectedEtag"
		names["#etag"] = ik.km.ETagAttribute()
		values[":expectedEtag"] = &types.AttributeValueMemberS{Value: expected}
	}

	_, err = s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                           &s.cfg.TableName,
		Key:                                 s.key(ik.pk, ik.rk),
		UpdateExpression:                    &expr,
		ConditionExpression:                 &condition,
		ExpressionAttributeNames:            names,
		ExpressionAttributeValues:           values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			if len(cfe.Item) == 0 {
				return tserrors.NewNotFoundError(typeName[T](), ik.pk+"/"+ik.rk)
			}
			return tserrors.NewConditionFailedError("update", "etag mismatch")
		}
		return fmt.Errorf("UpdateItem failed: %w", err)
	}

	writeETag(ik, record, etag)
	return nil
}

// Delete removes the record, guarded by its concurrency token. It fails with
// a not-found error when the record does not exist and a condition-failed
// error when the token is stale.
func (s *Store[T]) Delete(ctx context.Context, record *T) error {
	return s.delete(ctx, record, false)
}

// ForceDelete removes the record without checking the concurrency token.
// The record must still exist.
func (s *Store[T]) ForceDelete(ctx context.Context, record *T) error {
	return s.delete(ctx, record, true)
}

func (s *Store[T]) delete(ctx context.Context, record *T, force bool) error {
	if record == nil {
		return tserrors.NewValidationError("record", "must not be nil")
	}
	ik, err := keysForRecord(record)
	if err != nil {
		return err
	}

	expected := recordETag(ik)
	if !force && expected == "" {
		return tserrors.NewValidationError("etag", "record has no concurrency token; fetch it first or use ForceDelete")
	}

	condition := "attribute_exists(#pk)"
	names := map[string]string{"#pk": s.cfg.PartitionKeyAttribute}
	var values map[string]types.AttributeValue
	if !force {
		condition += " AND #etag = :expectedEtag"
		names["#etag"] = ik.km.ETagAttribute()
		values = map[string]types.AttributeValue{
			":expectedEtag": &types.AttributeValueMemberS{Value: expected},
		}
	}

	_, err = s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                           &s.cfg.TableName,
		Key:                                 s.key(ik.pk, ik.rk),
		ConditionExpression:                 &condition,
		ExpressionAttributeNames:            names,
		ExpressionAttributeValues:           values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			if len(cfe.Item) == 0 {
				return tserrors.NewNotFoundError(typeName[T](), ik.pk+"/"+ik.rk)
			}
			return tserrors.NewConditionFailedError("delete", "etag mismatch")
		}
		return fmt.Errorf("DeleteItem failed: %w", err)
	}
	return nil
}

// buildUpdateExpression transforms the record's non-key attributes into:
//   - an update expression (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// The new concurrency token is always part of the SET clause.
func (s *Store[T]) buildUpdateExpression(ik *itemKeys, etag string) (string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{"#pk": s.cfg.PartitionKeyAttribute}
	values := make(map[string]types.AttributeValue)

	etagAttr := ik.km.ETagAttribute()
	fields := make([]string, 0, len(ik.av))
	for field := range ik.av {
		if field == s.cfg.PartitionKeyAttribute || field == s.cfg.RowKeyAttribute || field == etagAttr {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields)+1)
	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		names[placeholderName] = field
		values[placeholderValue] = ik.av[field]
	}

	names["#newEtag"] = etagAttr
	values[":newEtag"] = &types.AttributeValueMemberS{Value: etag}
	setClauses = append(setClauses, "#newEtag = :newEtag")

	return "SET " + strings.Join(setClauses, ", "), names, values
}
