/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/tablestore/datastore"
)

// TypedStorage provides type-safe access to the table stores of a specific record type T
type TypedStorage[T any] struct {
	mu     sync.RWMutex
	stores map[string]datastore.TableStore[T]
}

// NewTypedStorage creates a new TypedStorage for type T
func NewTypedStorage[T any]() *TypedStorage[T] {
	return &TypedStorage[T]{
		stores: make(map[string]datastore.TableStore[T]),
	}
}

// Register adds a table store with the given key
func (ts *TypedStorage[T]) Register(key string, store datastore.TableStore[T]) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[key]; exists {
		return fmt.Errorf("table store with key %q already registered", key)
	}

	ts.stores[key] = store
	return nil
}

// Get retrieves a table store by key
func (ts *TypedStorage[T]) Get(key string) (datastore.TableStore[T], error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	store, exists := ts.stores[key]
	if !exists {
		return nil, fmt.Errorf("table store with key %q not found", key)
	}

	return store, nil
}

// Remove deletes a table store by key
func (ts *TypedStorage[T]) Remove(key string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[key]; !exists {
		return fmt.Errorf("table store with key %q not found", key)
	}

	delete(ts.stores, key)
	return nil
}

// List returns all registered table store keys
func (ts *TypedStorage[T]) List() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	keys := make([]string, 0, len(ts.stores))
	for k := range ts.stores {
		keys = append(keys, k)
	}
	return keys
}

// MultiTypeStorage manages TypedStorage instances for different record types
type MultiTypeStorage struct {
	mu       sync.RWMutex
	storages map[reflect.Type]interface{}
}

// NewMultiTypeStorage creates a new MultiTypeStorage
func NewMultiTypeStorage() *MultiTypeStorage {
	return &MultiTypeStorage{
		storages: make(map[reflect.Type]interface{}),
	}
}

// GetTypedStorage returns a TypedStorage for the specified type, creating it if necessary
func GetTypedStorage[T any](mts *MultiTypeStorage) *TypedStorage[T] {
	mts.mu.Lock()
	defer mts.mu.Unlock()

	var zero T
	typ := reflect.TypeOf(zero)

	if storage, exists := mts.storages[typ]; exists {
		return storage.(*TypedStorage[T])
	}

	// Create new typed storage
	newStorage := NewTypedStorage[T]()
	mts.storages[typ] = newStorage
	return newStorage
}

// Convenience functions for common operations

// RegisterTableStore is a convenience function to register a table store for type T
func RegisterTableStore[T any](mts *MultiTypeStorage, key string, store datastore.TableStore[T]) error {
	storage := GetTypedStorage[T](mts)
	return storage.Register(key, store)
}

// GetTableStore is a convenience function to get a table store for type T
func GetTableStore[T any](mts *MultiTypeStorage, key string) (datastore.TableStore[T], error) {
	storage := GetTypedStorage[T](mts)
	return storage.Get(key)
}

// RemoveTableStore is a convenience function to remove a table store for type T
func RemoveTableStore[T any](mts *MultiTypeStorage, key string) error {
	storage := GetTypedStorage[T](mts)
	return storage.Remove(key)
}

// ListTableStores is a convenience function to list all table stores for type T
func ListTableStores[T any](mts *MultiTypeStorage) []string {
	storage := GetTypedStorage[T](mts)
	return storage.List()
}
