/*
Package tablestore provides a typed repository layer over partitioned-key/row-key
table storage for Go applications, with optimistic concurrency, partition-aware
batch writes, and opaque continuation-token paging on top of Amazon DynamoDB.

Records are plain Go types. Each type registers a key map describing how its
partition key and row key are derived from its attributes, and the stores do the
rest: conditional writes, etag rotation, paging, and streaming.

Key Features:
  - Type-safe operations using Go generics
  - Optimistic concurrency via per-record etags, with explicit Force variants
  - Partition-aware batch inserts (atomic per chunk of up to 100 records)
  - Paged reads with opaque continuation tokens (empty token = final page)
  - Fluent row-range and time-range query builders
  - Channel-based streaming with progress tracking
  - Semantic error types for better error handling
  - Declarative table and key-map manifests (YAML)
  - In-memory mock store for testing

Basic Usage:

	// Register how Order records map to table keys
	registry.RegisterKeyMap[Order](registry.KeyMap{
		PartitionKey: "{CustomerID}",
		RowKey:       "ORDER#{OrderID}",
	})

	// Bind a store to a table
	store, _ := ddb.NewFromConfig[Order](ctx, ddb.Config{
		TableName: "orders",
		Region:    "us-east-1",
	})

	// Insert, read back, update under the etag guard
	order := &Order{CustomerID: "cust-1", OrderID: "1001", Status: "open"}
	_ = store.Insert(ctx, order)
	page, _ := store.GetByPartitionKeyPaged(ctx, "cust-1", 25, "")

	// Keep stores for many types behind one registry
	mts := tablestore.NewMultiTypeStorage()
	tablestore.RegisterTableStore(mts, "orders", store)

For more information, see the documentation at https://github.com/suparena/tablestore
*/
package tablestore
