/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tserrors "github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/registry"
)

// ticket is the workhorse record type for the white-box tests in this
// package. Its keys follow the venue/seat layout.
type ticket struct {
	Venue string `dynamodbav:"Venue"`
	Seat  string `dynamodbav:"Seat"`
	Price int    `dynamodbav:"Price"`
	ETag  string `dynamodbav:"ETag,omitempty"`
}

// unmapped never registers a key map.
type unmapped struct {
	ID string `dynamodbav:"ID"`
}

func init() {
	registry.RegisterKeyMap[ticket](registry.KeyMap{
		PartitionKey: "{Venue}",
		RowKey:       "SEAT#{Seat}",
	})
}

func testStore(t *testing.T) *Store[ticket] {
	t.Helper()
	cfg := Config{TableName: "tickets"}
	cfg.normalize()
	return &Store[ticket]{cfg: cfg}
}

func TestExpandTemplate(t *testing.T) {
	av, err := attributevalue.MarshalMap(&ticket{Venue: "arena-7", Seat: "A12", Price: 55})
	if err != nil {
		t.Fatalf("failed to marshal test record: %v", err)
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{name: "identity", template: "{Venue}", want: "arena-7"},
		{name: "prefixed", template: "SEAT#{Seat}", want: "SEAT#A12"},
		{name: "multiple macros", template: "{Venue}/{Seat}", want: "arena-7/A12"},
		{name: "literal", template: "TICKETS", want: "TICKETS"},
		{name: "numeric field", template: "P{Price}", want: "P55"},
		{name: "unknown field", template: "{Missing}", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandTemplate(tt.template, av); got != tt.want {
				t.Errorf("expandTemplate(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestKeysForRecord(t *testing.T) {
	ik, err := keysForRecord(&ticket{Venue: "arena-7", Seat: "A12"})
	if err != nil {
		t.Fatalf("keysForRecord failed: %v", err)
	}
	if ik.pk != "arena-7" {
		t.Errorf("partition key = %q, want %q", ik.pk, "arena-7")
	}
	if ik.rk != "SEAT#A12" {
		t.Errorf("row key = %q, want %q", ik.rk, "SEAT#A12")
	}
}

func TestKeysForRecordBlankKey(t *testing.T) {
	// An empty Venue expands the partition key template to "".
	_, err := keysForRecord(&ticket{Seat: "A12"})
	if err == nil {
		t.Fatal("expected a validation error for a blank partition key")
	}
	if !tserrors.IsValidationError(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestKeysForRecordNoKeyMap(t *testing.T) {
	_, err := keysForRecord(&unmapped{ID: "x"})
	if err == nil {
		t.Fatal("expected an error for a type without a key map")
	}
	if !errors.Is(err, tserrors.ErrNoKeyMap) {
		t.Errorf("expected ErrNoKeyMap, got %v", err)
	}
}

func TestRecordETagRoundTrip(t *testing.T) {
	rec := &ticket{Venue: "arena-7", Seat: "A12"}
	ik, err := keysForRecord(rec)
	if err != nil {
		t.Fatalf("keysForRecord failed: %v", err)
	}

	if etag := recordETag(ik); etag != "" {
		t.Errorf("fresh record should carry no etag, got %q", etag)
	}

	writeETag(ik, rec, "etag-1")
	if rec.ETag != "etag-1" {
		t.Errorf("writeETag did not refresh the record, got %q", rec.ETag)
	}

	ik2, err := keysForRecord(rec)
	if err != nil {
		t.Fatalf("keysForRecord failed: %v", err)
	}
	if etag := recordETag(ik2); etag != "etag-1" {
		t.Errorf("recordETag = %q, want %q", etag, "etag-1")
	}
}

func TestBuildItem(t *testing.T) {
	s := testStore(t)
	ik, err := keysForRecord(&ticket{Venue: "arena-7", Seat: "A12", Price: 55})
	if err != nil {
		t.Fatalf("keysForRecord failed: %v", err)
	}

	item := s.buildItem(ik, "etag-9")

	assertString := func(attr, want string) {
		t.Helper()
		v, ok := item[attr].(*types.AttributeValueMemberS)
		if !ok {
			t.Fatalf("attribute %q missing or not a string", attr)
		}
		if v.Value != want {
			t.Errorf("attribute %q = %q, want %q", attr, v.Value, want)
		}
	}

	assertString("PK", "arena-7")
	assertString("RK", "SEAT#A12")
	assertString("ETag", "etag-9")
	assertString("Venue", "arena-7")
	if _, ok := item["Price"].(*types.AttributeValueMemberN); !ok {
		t.Error("expected Price to remain a number attribute")
	}
}
