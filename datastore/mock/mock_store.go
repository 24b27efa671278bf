/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the TableStore interface for testing
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// batchChunkSize mirrors the per-partition chunk limit of the DynamoDB store.
const batchChunkSize = 100

// Store is an in-memory implementation of datastore.TableStore[T] for
// testing. Reads come back in sorted key order, so paged results are
// deterministic and continuation tokens behave the way the real store's do.
//
// The mock is permissive about the table lifecycle: data operations work
// whether or not CreateTable was called.
type Store[T any] struct {
	mu        sync.RWMutex
	rows      map[string]map[string]T // partition key -> row key -> record
	etags     map[string]string       // composite key -> concurrency token
	tableLive bool

	keyOf   func(*T) (partitionKey, rowKey string)
	etagOf  func(*T) string
	setETag func(*T, string)

	insertErr error
	updateErr error
	deleteErr error
	queryErr  error
}

// keyedRecord pairs a batch record with its derived row key.
type keyedRecord[T any] struct {
	rowKey string
	record *T
}

// New creates a mock store. The key function derives a record's partition
// and row key, the same role the key map registry plays for the DynamoDB
// store.
func New[T any](keyOf func(record *T) (partitionKey, rowKey string)) *Store[T] {
	if keyOf == nil {
		panic("mock: keyOf must not be nil")
	}
	return &Store[T]{
		rows:      make(map[string]map[string]T),
		etags:     make(map[string]string),
		tableLive: true,
		keyOf:     keyOf,
	}
}

// WithETagAccess teaches the mock how to read and refresh a record's
// concurrency token. Without it, Update and Delete skip the token check and
// behave like their Force variants.
func (m *Store[T]) WithETagAccess(get func(*T) string, set func(*T, string)) *Store[T] {
	m.etagOf = get
	m.setETag = set
	return m
}

// WithInsertError makes Insert and InsertBatch fail with err
func (m *Store[T]) WithInsertError(err error) *Store[T] {
	m.insertErr = err
	return m
}

// WithUpdateError makes Update and ForceUpdate fail with err
func (m *Store[T]) WithUpdateError(err error) *Store[T] {
	m.updateErr = err
	return m
}

// WithDeleteError makes Delete and ForceDelete fail with err
func (m *Store[T]) WithDeleteError(err error) *Store[T] {
	m.deleteErr = err
	return m
}

// WithQueryError makes every read operation fail with err
func (m *Store[T]) WithQueryError(err error) *Store[T] {
	m.queryErr = err
	return m
}

// Insert stores a new record and stamps a fresh concurrency token on it.
func (m *Store[T]) Insert(ctx context.Context, record *T) error {
	if record == nil {
		return errors.NewValidationError("record", "must not be nil")
	}
	pk, rk, err := m.keysFor(record)
	if err != nil {
		return err
	}
	if m.insertErr != nil {
		return m.insertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[pk][rk]; exists {
		return errors.NewAlreadyExistsError(typeName[T](), pk+"/"+rk)
	}
	m.putLocked(pk, rk, record)
	return nil
}

// InsertBatch stores records grouped by partition key in chunks of at most
// batchChunkSize. Chunks commit independently: when one fails, earlier chunks
// stay committed and the error reports the failing partition and chunk index.
func (m *Store[T]) InsertBatch(ctx context.Context, records []*T) error {
	if len(records) == 0 {
		return errors.NewValidationError("records", "must not be empty")
	}

	grouped := make(map[string][]keyedRecord[T])
	for i, rec := range records {
		if rec == nil {
			return errors.NewValidationError("records", fmt.Sprintf("record %d is nil", i))
		}
		pk, rk, err := m.keysFor(rec)
		if err != nil {
			return err
		}
		grouped[pk] = append(grouped[pk], keyedRecord[T]{rowKey: rk, record: rec})
	}

	partitionKeys := make([]string, 0, len(grouped))
	for pk := range grouped {
		partitionKeys = append(partitionKeys, pk)
	}
	sort.Strings(partitionKeys)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pk := range partitionKeys {
		group := grouped[pk]
		for chunk := 0; len(group) > 0; chunk++ {
			n := len(group)
			if n > batchChunkSize {
				n = batchChunkSize
			}
			if err := m.writeChunkLocked(pk, group[:n]); err != nil {
				return errors.NewBatchError(pk, chunk, err)
			}
			group = group[n:]
		}
	}
	return nil
}

// writeChunkLocked commits one chunk atomically: it scans for conflicts
// before touching any state, so a failed chunk leaves no rows behind.
func (m *Store[T]) writeChunkLocked(pk string, chunk []keyedRecord[T]) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, kr := range chunk {
		if _, exists := m.rows[pk][kr.rowKey]; exists {
			return errors.NewAlreadyExistsError(typeName[T](), pk+"/"+kr.rowKey)
		}
	}
	for _, kr := range chunk {
		m.putLocked(pk, kr.rowKey, kr.record)
	}
	return nil
}

// Update replaces a stored record, guarded by its concurrency token.
func (m *Store[T]) Update(ctx context.Context, record *T) error {
	return m.update(record, false)
}

// ForceUpdate replaces a stored record without checking the token.
func (m *Store[T]) ForceUpdate(ctx context.Context, record *T) error {
	return m.update(record, true)
}

func (m *Store[T]) update(record *T, force bool) error {
	if record == nil {
		return errors.NewValidationError("record", "must not be nil")
	}
	pk, rk, err := m.keysFor(record)
	if err != nil {
		return err
	}

	claimed := ""
	if m.etagOf != nil {
		claimed = m.etagOf(record)
		if !force && claimed == "" {
			return errors.NewValidationError("etag", "record has no concurrency token; fetch it first or use ForceUpdate")
		}
	}
	if m.updateErr != nil {
		return m.updateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[pk][rk]; !exists {
		return errors.NewNotFoundError(typeName[T](), pk+"/"+rk)
	}
	if !force && m.etagOf != nil && claimed != m.etags[compositeKey(pk, rk)] {
		return errors.NewConditionFailedError("update", "etag mismatch")
	}
	m.putLocked(pk, rk, record)
	return nil
}

// Delete removes a stored record, guarded by its concurrency token.
func (m *Store[T]) Delete(ctx context.Context, record *T) error {
	return m.delete(record, false)
}

// ForceDelete removes a stored record without checking the token.
func (m *Store[T]) ForceDelete(ctx context.Context, record *T) error {
	return m.delete(record, true)
}

func (m *Store[T]) delete(record *T, force bool) error {
	if record == nil {
		return errors.NewValidationError("record", "must not be nil")
	}
	pk, rk, err := m.keysFor(record)
	if err != nil {
		return err
	}

	claimed := ""
	if m.etagOf != nil {
		claimed = m.etagOf(record)
		if !force && claimed == "" {
			return errors.NewValidationError("etag", "record has no concurrency token; fetch it first or use ForceDelete")
		}
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[pk][rk]; !exists {
		return errors.NewNotFoundError(typeName[T](), pk+"/"+rk)
	}
	if !force && m.etagOf != nil && claimed != m.etags[compositeKey(pk, rk)] {
		return errors.NewConditionFailedError("delete", "etag mismatch")
	}

	delete(m.rows[pk], rk)
	if len(m.rows[pk]) == 0 {
		delete(m.rows, pk)
	}
	delete(m.etags, compositeKey(pk, rk))
	return nil
}

// GetRecord returns the record stored under the key pair, or (nil, nil)
// when there is none.
func (m *Store[T]) GetRecord(ctx context.Context, partitionKey, rowKey string) (*T, error) {
	if err := validateKey("partitionKey", partitionKey); err != nil {
		return nil, err
	}
	if err := validateKey("rowKey", rowKey); err != nil {
		return nil, err
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.rows[partitionKey][rowKey]
	if !exists {
		return nil, nil
	}
	return &rec, nil
}

// GetByPartitionKey returns every record in a partition in row key order.
func (m *Store[T]) GetByPartitionKey(ctx context.Context, partitionKey string) ([]T, error) {
	if err := validateKey("partitionKey", partitionKey); err != nil {
		return nil, err
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.rows[partitionKey]))
	for _, rk := range sortedKeys(m.rows[partitionKey]) {
		out = append(out, m.rows[partitionKey][rk])
	}
	return out, nil
}

// GetByPartitionKeyPaged returns one page of a partition's records.
func (m *Store[T]) GetByPartitionKeyPaged(ctx context.Context, partitionKey string, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error) {
	if err := validateKey("partitionKey", partitionKey); err != nil {
		return nil, err
	}
	if pageSize < 1 {
		return nil, errors.NewValidationError("pageSize", "must be at least 1")
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rowKeys := sortedKeys(m.rows[partitionKey])
	start := resumeAfter(rowKeys, continuationToken)
	end := start + int(pageSize)
	if end > len(rowKeys) {
		end = len(rowKeys)
	}

	items := make([]T, 0, end-start)
	for _, rk := range rowKeys[start:end] {
		items = append(items, m.rows[partitionKey][rk])
	}

	token := ""
	if end < len(rowKeys) {
		token = rowKeys[end-1]
	}
	return storagemodels.NewPagedResult(items, token), nil
}

// GetByRowKey returns every record whose row key matches exactly, across all
// partitions, in partition key order.
func (m *Store[T]) GetByRowKey(ctx context.Context, rowKey string) ([]T, error) {
	if err := validateKey("rowKey", rowKey); err != nil {
		return nil, err
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []T
	for _, pk := range sortedKeys(m.rows) {
		if rec, ok := m.rows[pk][rowKey]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// GetByRowKeyPaged returns one page of the records whose row key matches.
func (m *Store[T]) GetByRowKeyPaged(ctx context.Context, rowKey string, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error) {
	if err := validateKey("rowKey", rowKey); err != nil {
		return nil, err
	}
	if pageSize < 1 {
		return nil, errors.NewValidationError("pageSize", "must be at least 1")
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matching []string
	for _, pk := range sortedKeys(m.rows) {
		if _, ok := m.rows[pk][rowKey]; ok {
			matching = append(matching, pk)
		}
	}

	start := resumeAfter(matching, continuationToken)
	end := start + int(pageSize)
	if end > len(matching) {
		end = len(matching)
	}

	items := make([]T, 0, end-start)
	for _, pk := range matching[start:end] {
		items = append(items, m.rows[pk][rowKey])
	}

	token := ""
	if end < len(matching) {
		token = matching[end-1]
	}
	return storagemodels.NewPagedResult(items, token), nil
}

// GetAllRecords returns every stored record in partition, then row key order.
func (m *Store[T]) GetAllRecords(ctx context.Context) ([]T, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(), nil
}

// GetAllRecordsPaged returns one page of the full table.
func (m *Store[T]) GetAllRecordsPaged(ctx context.Context, pageSize int32, continuationToken string) (*storagemodels.PagedResult[T], error) {
	if pageSize < 1 {
		return nil, errors.NewValidationError("pageSize", "must be at least 1")
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var composites []string
	for _, pk := range sortedKeys(m.rows) {
		for _, rk := range sortedKeys(m.rows[pk]) {
			composites = append(composites, compositeKey(pk, rk))
		}
	}

	start := resumeAfter(composites, continuationToken)
	end := start + int(pageSize)
	if end > len(composites) {
		end = len(composites)
	}

	items := make([]T, 0, end-start)
	for _, ck := range composites[start:end] {
		pk, rk := splitCompositeKey(ck)
		items = append(items, m.rows[pk][rk])
	}

	token := ""
	if end < len(composites) {
		token = composites[end-1]
	}
	return storagemodels.NewPagedResult(items, token), nil
}

// GetRecordCount returns the number of stored records.
func (m *Store[T]) GetRecordCount(ctx context.Context) (int64, error) {
	if m.queryErr != nil {
		return 0, m.queryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, rows := range m.rows {
		n += int64(len(rows))
	}
	return n, nil
}

// Stream emits a snapshot of the stored records in key order. Records added
// after Stream returns do not appear. The Raw attribute map is always nil;
// the mock has no wire representation.
func (m *Store[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if m.queryErr != nil {
		results := make(chan storagemodels.StreamResult[T], 1)
		results <- storagemodels.StreamResult[T]{Error: m.queryErr}
		close(results)
		return results
	}

	m.mu.RLock()
	snapshot := m.snapshotLocked()
	m.mu.RUnlock()

	results := make(chan storagemodels.StreamResult[T], options.BufferSize)

	go func() {
		defer close(results)

		start := time.Now()
		pageSize := int(options.PageSize)
		if pageSize < 1 {
			pageSize = 1
		}

		for i, rec := range snapshot {
			result := storagemodels.StreamResult[T]{
				Item: rec,
				Meta: storagemodels.StreamMeta{
					Index:      int64(i),
					PageNumber: i/pageSize + 1,
					Timestamp:  time.Now(),
				},
			}
			select {
			case <-ctx.Done():
				return
			case results <- result:
			}

			endOfPage := (i+1)%pageSize == 0 || i == len(snapshot)-1
			if endOfPage && options.ProgressHandler != nil {
				processed := int64(i + 1)
				rate := 0.0
				if elapsed := time.Since(start).Seconds(); elapsed > 0 {
					rate = float64(processed) / elapsed
				}
				options.ProgressHandler(storagemodels.StreamProgress{
					ItemsProcessed: processed,
					PagesProcessed: i/pageSize + 1,
					StartTime:      start,
					CurrentRate:    rate,
				})
			}
		}
	}()

	return results
}

// CreateTable marks the table as present. A new mock starts with the table
// already present, so this only matters after DeleteTable.
func (m *Store[T]) CreateTable(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableLive = true
	return nil
}

// TableExists reports whether the table is present.
func (m *Store[T]) TableExists(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tableLive, nil
}

// DeleteTable drops the table and everything in it.
func (m *Store[T]) DeleteTable(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableLive = false
	m.rows = make(map[string]map[string]T)
	m.etags = make(map[string]string)
	return nil
}

// Helper methods for testing

// Seed loads records directly, overwriting duplicates and bypassing error
// injection. It panics on records with blank keys; seeding is test setup,
// not behavior under test.
func (m *Store[T]) Seed(records ...*T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		pk, rk, err := m.keysFor(rec)
		if err != nil {
			panic(fmt.Sprintf("mock: cannot seed record: %v", err))
		}
		m.putLocked(pk, rk, rec)
	}
}

// Count returns the number of stored records
func (m *Store[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, rows := range m.rows {
		n += len(rows)
	}
	return n
}

// Clear removes all records
func (m *Store[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string]map[string]T)
	m.etags = make(map[string]string)
}

// putLocked stores the record and rotates its concurrency token. The caller
// holds the write lock.
func (m *Store[T]) putLocked(pk, rk string, record *T) {
	if m.rows[pk] == nil {
		m.rows[pk] = make(map[string]T)
	}
	etag := uuid.NewString()
	m.etags[compositeKey(pk, rk)] = etag
	if m.setETag != nil {
		m.setETag(record, etag)
	}
	m.rows[pk][rk] = *record
}

// snapshotLocked copies out every record in partition, then row key order.
// The caller holds at least the read lock.
func (m *Store[T]) snapshotLocked() []T {
	var out []T
	for _, pk := range sortedKeys(m.rows) {
		for _, rk := range sortedKeys(m.rows[pk]) {
			out = append(out, m.rows[pk][rk])
		}
	}
	return out
}

func (m *Store[T]) keysFor(record *T) (string, string, error) {
	pk, rk := m.keyOf(record)
	if err := validateKey("partitionKey", pk); err != nil {
		return "", "", err
	}
	if err := validateKey("rowKey", rk); err != nil {
		return "", "", err
	}
	return pk, rk, nil
}

func validateKey(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field, "must not be blank")
	}
	return nil
}

// compositeKey joins a key pair with a separator that sorts below any
// printable character, so composite order matches (partition, row) order.
func compositeKey(pk, rk string) string {
	return pk + "\x00" + rk
}

func splitCompositeKey(ck string) (string, string) {
	i := strings.IndexByte(ck, 0)
	return ck[:i], ck[i+1:]
}

// resumeAfter returns the index of the first key strictly after the token.
func resumeAfter(keys []string, token string) int {
	if token == "" {
		return 0
	}
	return sort.Search(len(keys), func(i int) bool { return keys[i] > token })
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
