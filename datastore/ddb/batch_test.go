/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tserrors "github.com/suparena/tablestore/errors"
)

func itemRowKey(t *testing.T, item map[string]types.AttributeValue) string {
	t.Helper()
	v, ok := item["RK"].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatal("item has no RK attribute")
	}
	return v.Value
}

func TestChunkRecordsGroupsAndSplits(t *testing.T) {
	s := testStore(t)

	// 250 seats in one venue, 3 in another, 1 in a third.
	var records []*ticket
	for i := 0; i < 250; i++ {
		records = append(records, &ticket{Venue: "venue-b", Seat: fmt.Sprintf("B%03d", i)})
	}
	for i := 0; i < 3; i++ {
		records = append(records, &ticket{Venue: "venue-a", Seat: fmt.Sprintf("A%03d", i)})
	}
	records = append(records, &ticket{Venue: "venue-c", Seat: "C000"})

	chunks, err := s.chunkRecords(records)
	if err != nil {
		t.Fatalf("chunkRecords failed: %v", err)
	}

	// venue-a: 1 chunk, venue-b: 3 chunks (100+100+50), venue-c: 1 chunk.
	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}

	t.Run("groups are ordered by partition key", func(t *testing.T) {
		var order []string
		for _, c := range chunks {
			order = append(order, c.partitionKey)
		}
		want := []string{"venue-a", "venue-b", "venue-b", "venue-b", "venue-c"}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("chunk order = %v, want %v", order, want)
			}
		}
	})

	t.Run("chunks never exceed the batch cap", func(t *testing.T) {
		sizes := map[string][]int{}
		for _, c := range chunks {
			if len(c.items) > maxBatchSize {
				t.Errorf("chunk for %s has %d items, cap is %d", c.partitionKey, len(c.items), maxBatchSize)
			}
			if len(c.items) == 0 {
				t.Errorf("empty chunk emitted for %s", c.partitionKey)
			}
			sizes[c.partitionKey] = append(sizes[c.partitionKey], len(c.items))
		}
		wantB := []int{100, 100, 50}
		gotB := sizes["venue-b"]
		if len(gotB) != len(wantB) {
			t.Fatalf("venue-b chunk sizes = %v, want %v", gotB, wantB)
		}
		for i := range wantB {
			if gotB[i] != wantB[i] {
				t.Fatalf("venue-b chunk sizes = %v, want %v", gotB, wantB)
			}
		}
	})

	t.Run("chunk indexes restart per partition", func(t *testing.T) {
		indexes := map[string][]int{}
		for _, c := range chunks {
			indexes[c.partitionKey] = append(indexes[c.partitionKey], c.index)
		}
		for pk, idx := range indexes {
			for i, got := range idx {
				if got != i {
					t.Errorf("partition %s chunk indexes = %v", pk, idx)
					break
				}
			}
		}
	})

	t.Run("union of chunks equals the input", func(t *testing.T) {
		var got []string
		for _, c := range chunks {
			for _, item := range c.items {
				got = append(got, itemRowKey(t, item))
			}
		}
		var want []string
		for _, r := range records {
			want = append(want, "SEAT#"+r.Seat)
		}
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Fatalf("chunked %d items, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("chunked items diverge at %d: got %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestChunkRecordsRejectsNilRecord(t *testing.T) {
	s := testStore(t)
	_, err := s.chunkRecords([]*ticket{
		{Venue: "venue-a", Seat: "A000"},
		nil,
	})
	if err == nil {
		t.Fatal("expected a validation error for a nil record")
	}
	if !tserrors.IsValidationError(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestInsertBatchValidatesBeforeAnyCall(t *testing.T) {
	// The store has no client; reaching the network would panic.
	s := testStore(t)

	t.Run("empty batch", func(t *testing.T) {
		if err := s.InsertBatch(context.Background(), nil); !tserrors.IsValidationError(err) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})

	t.Run("record with blank key", func(t *testing.T) {
		err := s.InsertBatch(context.Background(), []*ticket{{Seat: "A000"}})
		if !tserrors.IsValidationError(err) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})
}
