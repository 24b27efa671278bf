/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tserrors "github.com/suparena/tablestore/errors"
)

func stringValue(t *testing.T, values map[string]types.AttributeValue, placeholder string) string {
	t.Helper()
	v, ok := values[placeholder].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("placeholder %q missing or not a string", placeholder)
	}
	return v.Value
}

func TestRowRangeBuildInput(t *testing.T) {
	s := testStore(t)

	tests := []struct {
		name      string
		query     *RowRangeQuery[ticket]
		wantCond  string
		wantRK    string
		wantRK2   string
		wantOrder *bool
	}{
		{
			name:     "partition only",
			query:    s.RowsIn("arena-7"),
			wantCond: "#pk = :pk",
		},
		{
			name:     "exact row key",
			query:    s.RowsIn("arena-7").WithRowKey("SEAT#A12"),
			wantCond: "#pk = :pk AND #rk = :rk",
			wantRK:   "SEAT#A12",
		},
		{
			name:     "prefix",
			query:    s.RowsIn("arena-7").WithRowKeyPrefix("SEAT#A"),
			wantCond: "#pk = :pk AND begins_with(#rk, :rk)",
			wantRK:   "SEAT#A",
		},
		{
			name:     "greater than",
			query:    s.RowsIn("arena-7").WithRowKeyGreaterThan("SEAT#A10"),
			wantCond: "#pk = :pk AND #rk > :rk",
			wantRK:   "SEAT#A10",
		},
		{
			name:     "at most",
			query:    s.RowsIn("arena-7").WithRowKeyAtMost("SEAT#A99"),
			wantCond: "#pk = :pk AND #rk <= :rk",
			wantRK:   "SEAT#A99",
		},
		{
			name:     "between",
			query:    s.RowsIn("arena-7").WithRowKeyBetween("SEAT#A10", "SEAT#A20"),
			wantCond: "#pk = :pk AND #rk BETWEEN :rk AND :rk2",
			wantRK:   "SEAT#A10",
			wantRK2:  "SEAT#A20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := tt.query.buildInput()
			if err != nil {
				t.Fatalf("buildInput failed: %v", err)
			}
			if got := *input.KeyConditionExpression; got != tt.wantCond {
				t.Errorf("key condition = %q, want %q", got, tt.wantCond)
			}
			if got := stringValue(t, input.ExpressionAttributeValues, ":pk"); got != "arena-7" {
				t.Errorf(":pk = %q, want %q", got, "arena-7")
			}
			if tt.wantRK != "" {
				if got := stringValue(t, input.ExpressionAttributeValues, ":rk"); got != tt.wantRK {
					t.Errorf(":rk = %q, want %q", got, tt.wantRK)
				}
				if input.ExpressionAttributeNames["#rk"] != "RK" {
					t.Errorf("#rk maps to %q, want RK", input.ExpressionAttributeNames["#rk"])
				}
			}
			if tt.wantRK2 != "" {
				if got := stringValue(t, input.ExpressionAttributeValues, ":rk2"); got != tt.wantRK2 {
					t.Errorf(":rk2 = %q, want %q", got, tt.wantRK2)
				}
			}
		})
	}
}

func TestRowRangeDescending(t *testing.T) {
	s := testStore(t)
	input, err := s.RowsIn("arena-7").Descending().buildInput()
	if err != nil {
		t.Fatalf("buildInput failed: %v", err)
	}
	if input.ScanIndexForward == nil || *input.ScanIndexForward {
		t.Error("expected ScanIndexForward=false for a descending range")
	}
}

func TestRowRangeBlankPartitionKey(t *testing.T) {
	s := testStore(t)

	if _, err := s.RowsIn(" ").All(context.Background()); !tserrors.IsValidationError(err) {
		t.Errorf("All: expected a validation error, got %v", err)
	}
	if _, err := s.RowsIn("").Page(context.Background(), 10, ""); !tserrors.IsValidationError(err) {
		t.Errorf("Page: expected a validation error, got %v", err)
	}

	// The stream variant reports the error on the channel.
	res, ok := <-s.RowsIn("").Stream(context.Background())
	if !ok {
		t.Fatal("expected one stream result before close")
	}
	if !tserrors.IsValidationError(res.Error) {
		t.Errorf("Stream: expected a validation error, got %v", res.Error)
	}
}

func TestRowRangePageSizeValidation(t *testing.T) {
	s := testStore(t)
	if _, err := s.RowsIn("arena-7").Page(context.Background(), 0, ""); !tserrors.IsValidationError(err) {
		t.Errorf("expected a validation error for page size 0, got %v", err)
	}
}

func TestTimeRangeBuildsRFC3339Conditions(t *testing.T) {
	s := testStore(t)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	input, err := s.RowsInTimeRange("arena-7").Between(start, end).Latest().buildInput()
	if err != nil {
		t.Fatalf("buildInput failed: %v", err)
	}

	wantCond := "#pk = :pk AND #rk BETWEEN :rk AND :rk2"
	if got := *input.KeyConditionExpression; got != wantCond {
		t.Errorf("key condition = %q, want %q", got, wantCond)
	}
	if got := stringValue(t, input.ExpressionAttributeValues, ":rk"); got != "2025-03-01T00:00:00Z" {
		t.Errorf(":rk = %q", got)
	}
	if got := stringValue(t, input.ExpressionAttributeValues, ":rk2"); got != "2025-03-31T23:59:59Z" {
		t.Errorf(":rk2 = %q", got)
	}
	if input.ScanIndexForward == nil || *input.ScanIndexForward {
		t.Error("Latest() should traverse in descending order")
	}
}
