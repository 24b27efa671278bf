/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"fmt"
	"sync"
)

// Storage is a higher-level interface that manages a collection of TableStore instances.
// Note that its methods are not generic; they use the empty interface (any) to store and retrieve TableStores.
type Storage interface {
	// RegisterTableStore registers a TableStore under a given key (for example, "Order" or "Shipment").
	RegisterTableStore(key string, ts any) error
	// GetTableStore retrieves the registered TableStore for a given key.
	// The caller must type-assert the returned value to the appropriate TableStore type.
	GetTableStore(key string) (any, error)
}

// storageManager is a thread-safe implementation of the Storage interface.
type storageManager struct {
	mu     sync.RWMutex
	stores map[string]any
}

// NewStorageManager creates and returns a new Storage implementation.
func NewStorageManager() Storage {
	return &storageManager{
		stores: make(map[string]any),
	}
}

// RegisterTableStore stores the provided TableStore under the given key.
func (sm *storageManager) RegisterTableStore(key string, ts any) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.stores[key]; exists {
		return fmt.Errorf("table store with key %q already registered", key)
	}
	sm.stores[key] = ts
	return nil
}

// GetTableStore retrieves the TableStore associated with the given key.
func (sm *storageManager) GetTableStore(key string) (any, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ts, exists := sm.stores[key]
	if !exists {
		return nil, fmt.Errorf("table store with key %q not found", key)
	}
	return ts, nil
}
