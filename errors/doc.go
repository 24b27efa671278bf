/*
Package errors provides semantic error types for the TableStore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("record not found")
	    ErrAlreadyExists   = errors.New("record already exists")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrNoKeyMap        = errors.New("no key map registered for type")
	)

Usage:

	// Check error type
	order, err := store.GetRecord(ctx, "ACME", "2025-01-02")
	if err != nil {
	    if errors.IsValidationError(err) {
	        // Handle bad input
	        return nil, fmt.Errorf("bad lookup key: %w", err)
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Order", "ACME/2025-01-02")
	err := errors.NewValidationError("partitionKey", "must not be blank")
	err := errors.NewConditionFailedError("update", "etag mismatch")

Bulk writes report partial failure through BatchError, which records the
partition key and chunk index of the first chunk that failed while leaving
previously committed chunks in place:

	if err := store.InsertBatch(ctx, records); err != nil {
	    var be *errors.BatchError
	    if stderrors.As(err, &be) {
	        log.Printf("chunk %d of partition %s failed", be.Chunk, be.PartitionKey)
	    }
	}

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
