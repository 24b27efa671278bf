/*
Package registry manages key-map registration for TableStore.

A key map tells the store how a record type derives its partition key, row
key, and concurrency-token attribute:

	registry.RegisterKeyMap[Order](registry.KeyMap{
	    PartitionKey: "{CustomerID}",
	    RowKey:       "ORDER#{OrderID}",
	})

Templates use {Field} macros that expand against the record's marshaled
attributes; a template without macros is stored literally. The ETag field
names the attribute carrying the optimistic-concurrency token and defaults
to "ETag".

Key maps can also be registered under an entity name, typically by loading
a manifest, and adopted by a Go type afterwards:

	registry.RegisterNamedKeyMap("Order", km)
	err := registry.AdoptNamedKeyMap[Order]("Order")

The type-keyed registry is thread-safe; named registration is expected to
happen during initialization and panics on duplicates to prevent accidental
overrides.
*/
package registry
