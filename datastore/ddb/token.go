/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tserrors "github.com/suparena/tablestore/errors"
)

// tokenAttribute is the serialized form of one key attribute inside a
// continuation token. Exactly one field is set.
type tokenAttribute struct {
	S *string `json:"s,omitempty"`
	N *string `json:"n,omitempty"`
	B []byte  `json:"b,omitempty"`
}

// encodeContinuationToken serializes a LastEvaluatedKey into an opaque token.
// An empty key yields an empty token, marking the final page.
func encodeContinuationToken(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	payload := make(map[string]tokenAttribute, len(key))
	for name, av := range key {
		switch tv := av.(type) {
		case *types.AttributeValueMemberS:
			payload[name] = tokenAttribute{S: &tv.Value}
		case *types.AttributeValueMemberN:
			payload[name] = tokenAttribute{N: &tv.Value}
		case *types.AttributeValueMemberB:
			payload[name] = tokenAttribute{B: tv.Value}
		default:
			return "", fmt.Errorf("unsupported key attribute type %T for %q", av, name)
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode continuation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeContinuationToken restores an ExclusiveStartKey from an opaque token.
// An empty token means the read starts from the beginning.
func decodeContinuationToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, tserrors.NewValidationError("continuationToken", "not a valid continuation token")
	}
	var payload map[string]tokenAttribute
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, tserrors.NewValidationError("continuationToken", "not a valid continuation token")
	}

	key := make(map[string]types.AttributeValue, len(payload))
	for name, attr := range payload {
		switch {
		case attr.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *attr.S}
		case attr.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *attr.N}
		case attr.B != nil:
			key[name] = &types.AttributeValueMemberB{Value: attr.B}
		default:
			return nil, tserrors.NewValidationError("continuationToken", "not a valid continuation token")
		}
	}
	return key, nil
}
