/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when inserting a record whose identity is taken
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when an optimistic-concurrency check fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoKeyMap is returned when no key map is registered for a type
	ErrNoKeyMap = errors.New("no key map registered for type")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when a record already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// BatchError reports the first failed chunk of a bulk write. Chunks submitted
// before the failing one remain committed; chunks after it were not attempted.
type BatchError struct {
	PartitionKey string
	Chunk        int
	Err          error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch write failed for partition %q, chunk %d: %v", e.PartitionKey, e.Chunk, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(recordType, key string) error {
	return &NotFoundError{Type: recordType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(recordType, key string) error {
	return &AlreadyExistsError{Type: recordType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewBatchError creates a new BatchError wrapping the underlying write failure
func NewBatchError(partitionKey string, chunk int, err error) error {
	return &BatchError{PartitionKey: partitionKey, Chunk: chunk, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsBatchError checks if an error is a batch write error
func IsBatchError(err error) bool {
	var be *BatchError
	return errors.As(err, &be)
}
