/*
Package ddb provides the DynamoDB implementation of the TableStore interface.

The Store supports:
  - Macro-based key expansion (e.g., "ORDER#{OrderID}")
  - Optimistic concurrency through rotating etags, with Force variants
  - Partition-aware bulk inserts committed in atomic chunks of up to 100
  - Paged reads with opaque continuation tokens
  - Row-key lookups across partitions through a row-key index
  - Streaming reads over a channel
  - Table administration (create, exists, delete)

Key Expansion:
Keys come from the key map registered for the record type. Templates use
macros that are replaced with the record's field values:

	registry.RegisterKeyMap[Order](registry.KeyMap{
	    PartitionKey: "{CustomerID}",       // Direct field value
	    RowKey:       "ORDER#{OrderID}",    // Prefixed field value
	})

Paging:
The Paged read variants execute exactly one server page and hand back an
opaque continuation token. Resume by passing the token to the next call:

	page, err := store.GetByPartitionKeyPaged(ctx, "ACME", 50, "")
	next, err := store.GetByPartitionKeyPaged(ctx, "ACME", 50, page.ContinuationToken)

Row ranges:
Range reads within one partition use the fluent builder:

	orders, err := store.RowsIn("ACME").WithRowKeyPrefix("ORDER#2025").All(ctx)

Streaming:
The streaming API supports configurable options:

	results := store.Stream(ctx,
	    storagemodels.WithBufferSize(100),
	    storagemodels.WithPageSize(25),
	    storagemodels.WithProgressHandler(func(p storagemodels.StreamProgress) {
	        log.Printf("Processed %d items", p.ItemsProcessed)
	    }),
	)

Retries are not handled inside this package; the client built by NewClient
carries the configured retry policy, and all operations lean on it.

For usage examples, see the integration tests and documentation.
*/
package ddb
