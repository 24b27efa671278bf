/*
Package storagemodels defines the data structures used throughout TableStore.

Key Types:

PagedResult:
One page of a multi-page read plus the opaque continuation token:

	page, err := store.GetByPartitionKeyPaged(ctx, "ACME", 50, "")
	for !page.IsFinalPage {
	    page, err = store.GetByPartitionKeyPaged(ctx, "ACME", 50, page.ContinuationToken)
	    ...
	}

The token is an implementation detail of the storage backend; callers only
pass it back unchanged. ContinuationToken is empty exactly when IsFinalPage
is true.

StreamResult:
Results from streaming operations with metadata:

	type StreamResult[T any] struct {
	    Item  T                               // The typed record
	    Raw   map[string]types.AttributeValue // Raw attributes
	    Error error                           // Item-specific error, if any
	    Meta  StreamMeta                      // Metadata about this item
	}

StreamOptions:
Configuration for streaming behavior:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithProgressHandler(progressFunc),
	}

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
