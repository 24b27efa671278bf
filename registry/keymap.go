/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// KeyMap describes how a record type derives its table keys. PartitionKey and
// RowKey are templates over the record's marshaled attributes using {Field}
// macros, e.g. "{CustomerID}" or "ORDER#{OrderID}"; a template without macros
// is taken as a literal. ETag names the attribute carrying the record's
// optimistic-concurrency token; when empty it defaults to "ETag".
type KeyMap struct {
	PartitionKey string
	RowKey       string
	ETag         string
}

const defaultETagAttribute = "ETag"

// ETagAttribute returns the attribute name holding the concurrency token.
func (k KeyMap) ETagAttribute() string {
	if k.ETag == "" {
		return defaultETagAttribute
	}
	return k.ETag
}

var (
	keyMapRegistry = make(map[reflect.Type]KeyMap)
	mu             sync.RWMutex
)

// RegisterKeyMap associates a Go type T with its key map.
func RegisterKeyMap[T any](km KeyMap) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.Lock()
	defer mu.Unlock()
	keyMapRegistry[t] = km
}

// GetKeyMap retrieves the key map for type T, if any.
func GetKeyMap[T any]() (KeyMap, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.RLock()
	defer mu.RUnlock()
	km, ok := keyMapRegistry[t]
	return km, ok
}
