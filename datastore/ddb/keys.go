/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tserrors "github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/registry"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandTemplate fills {Field} macros in a key template from the marshaled
// record attributes. Unknown fields and non-scalar attributes expand to "".
func expandTemplate(template string, av map[string]types.AttributeValue) string {
	return macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
		// macro is something like "{OrderID}"
		name := strings.Trim(macro, "{}")

		val, ok := av[name]
		if !ok {
			return ""
		}

		switch tv := val.(type) {
		case *types.AttributeValueMemberS:
			return tv.Value

		case *types.AttributeValueMemberN:
			return tv.Value

		case *types.AttributeValueMemberBOOL:
			return fmt.Sprintf("%v", tv.Value)

		default:
			// NULL, binary and set members carry no usable key text.
			return ""
		}
	})
}

// itemKeys holds a record's derived keys together with its marshaled
// attributes and the key map that produced them.
type itemKeys struct {
	pk string
	rk string
	av map[string]types.AttributeValue
	km registry.KeyMap
}

// keysForRecord derives the partition and row key for a record through its
// registered key map. A key that expands to blank is a validation error.
func keysForRecord[T any](record *T) (*itemKeys, error) {
	km, ok := registry.GetKeyMap[T]()
	if !ok {
		return nil, fmt.Errorf("%w: %s", tserrors.ErrNoKeyMap, typeName[T]())
	}

	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	pk := expandTemplate(km.PartitionKey, av)
	rk := expandTemplate(km.RowKey, av)
	if strings.TrimSpace(pk) == "" {
		return nil, tserrors.NewValidationError("partitionKey", "key template expanded to blank")
	}
	if strings.TrimSpace(rk) == "" {
		return nil, tserrors.NewValidationError("rowKey", "key template expanded to blank")
	}

	return &itemKeys{pk: pk, rk: rk, av: av, km: km}, nil
}

// recordETag reads the concurrency token carried by the marshaled record.
func recordETag(ik *itemKeys) string {
	if v, ok := ik.av[ik.km.ETagAttribute()].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// writeETag refreshes the record's concurrency token after a successful
// write. Records without an etag field are left as they are.
func writeETag[T any](ik *itemKeys, record *T, etag string) {
	ik.av[ik.km.ETagAttribute()] = &types.AttributeValueMemberS{Value: etag}
	_ = attributevalue.UnmarshalMap(ik.av, record)
}

// key builds the primary key attribute map for a (partition key, row key) pair.
func (s *Store[T]) key(pk, rk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.cfg.PartitionKeyAttribute: &types.AttributeValueMemberS{Value: pk},
		s.cfg.RowKeyAttribute:       &types.AttributeValueMemberS{Value: rk},
	}
}

// buildItem assembles the full item for a write: the record's attributes plus
// the derived key attributes and the new concurrency token.
func (s *Store[T]) buildItem(ik *itemKeys, etag string) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue, len(ik.av)+3)
	for k, v := range ik.av {
		item[k] = v
	}
	item[s.cfg.PartitionKeyAttribute] = &types.AttributeValueMemberS{Value: ik.pk}
	item[s.cfg.RowKeyAttribute] = &types.AttributeValueMemberS{Value: ik.rk}
	item[ik.km.ETagAttribute()] = &types.AttributeValueMemberS{Value: etag}
	return item
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
