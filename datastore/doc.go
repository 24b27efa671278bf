/*
Package datastore defines the core interfaces for TableStore's data persistence layer.

The main interface is TableStore[T], a typed repository over one partitioned
table. Records are addressed by a (partition key, row key) pair derived from
the record through its registered key map.

Write semantics:

  - Insert fails with an already-exists error when the identity is taken.
  - InsertBatch groups records by partition key, orders the groups, splits
    each group into chunks of at most 100 records, and commits one atomic
    batch per chunk. Atomicity holds within a chunk only: when a chunk
    fails, earlier chunks stay committed and later chunks are not attempted.
  - Update and Delete are guarded by the record's concurrency token (etag);
    the Force variants skip the token check but still require the record to
    exist. Every successful write rotates the token.

Read semantics:

  - GetRecord returns (nil, nil) when the identity does not exist.
  - The unpaged reads (GetByPartitionKey, GetByRowKey, GetAllRecords) follow
    server continuation until the result set is exhausted.
  - The Paged variants execute exactly one page and return a
    storagemodels.PagedResult whose ContinuationToken resumes the read;
    the token is empty exactly when the page is final.
  - Stream delivers a full-table read over a channel for asynchronous
    consumption.

Implementations:
  - ddb: DynamoDB implementation
  - mock: In-memory mock implementation for testing

The package uses Go generics to ensure type safety at compile time while maintaining
flexibility for different storage backends.
*/
package datastore
