/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/suparena/tablestore/registry"
)

// Manifest is a declarative description of the tables an application uses and
// the key maps of the entities stored in them.
type Manifest struct {
	Version  int                   `yaml:"version"`
	Tables   []Table               `yaml:"tables"`
	Entities map[string]EntityKeys `yaml:"entities"`
}

// Table describes one table's name and key schema. Blank attribute names fall
// back to the store defaults ("PK", "RK", "RowKeyIndex").
type Table struct {
	Name                  string `yaml:"name"`
	PartitionKeyAttribute string `yaml:"partitionKeyAttribute"`
	RowKeyAttribute       string `yaml:"rowKeyAttribute"`
	RowKeyIndexName       string `yaml:"rowKeyIndexName"`
}

// EntityKeys describes how one entity's keys are derived, using the key map
// template syntax ("{CustomerID}", "ORDER#{OrderID}").
type EntityKeys struct {
	Table        string `yaml:"table"`
	PartitionKey string `yaml:"partitionKey"`
	RowKey       string `yaml:"rowKey"`
	ETag         string `yaml:"etag"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for internal consistency.
func (m *Manifest) Validate() error {
	if m.Version > 1 {
		return fmt.Errorf("unsupported manifest version %d", m.Version)
	}

	seen := make(map[string]bool, len(m.Tables))
	for i, t := range m.Tables {
		if t.Name == "" {
			return fmt.Errorf("table %d has no name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("table %q declared twice", t.Name)
		}
		seen[t.Name] = true
	}

	for name, e := range m.Entities {
		if e.PartitionKey == "" {
			return fmt.Errorf("entity %q has no partition key template", name)
		}
		if e.RowKey == "" {
			return fmt.Errorf("entity %q has no row key template", name)
		}
		if e.Table != "" && len(m.Tables) > 0 && !seen[e.Table] {
			return fmt.Errorf("entity %q references undeclared table %q", name, e.Table)
		}
	}
	return nil
}

// Apply registers every entity's key map under its entity name. Go types
// adopt them later through registry.AdoptNamedKeyMap. Registering the same
// entity name twice panics, so Apply is meant to run once at startup.
func (m *Manifest) Apply() error {
	if err := m.Validate(); err != nil {
		return err
	}
	for name, e := range m.Entities {
		registry.RegisterNamedKeyMap(name, registry.KeyMap{
			PartitionKey: e.PartitionKey,
			RowKey:       e.RowKey,
			ETag:         e.ETag,
		})
	}
	return nil
}

// Table returns the declared table with the given name.
func (m *Manifest) Table(name string) (Table, bool) {
	for _, t := range m.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
