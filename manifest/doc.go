/*
Package manifest provides declarative table and key-map configuration.

A manifest is a YAML document listing the tables an application uses and the
key templates of the entities stored in them:

	version: 1
	tables:
	  - name: orders
	    partitionKeyAttribute: PK
	    rowKeyAttribute: RK
	    rowKeyIndexName: RowKeyIndex
	entities:
	  Order:
	    table: orders
	    partitionKey: "{CustomerID}"
	    rowKey: "ORDER#{OrderID}"
	    etag: ETag

Applying a manifest registers each entity's key map under its entity name.
A Go type then adopts its key map once, typically in an init function:

	m, err := manifest.Load("tables.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	if err := m.Apply(); err != nil {
	    log.Fatal(err)
	}
	registry.AdoptNamedKeyMap[Order]("Order")

This keeps key layouts in one reviewable file shared by services and the
tableadmin CLI, instead of scattering them through application code.
*/
package manifest
