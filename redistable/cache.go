// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package redistable

import (
	"slices"
	"sync"

	"storj.io/enrichment"
)

// Row field names served by this table.
const (
	rowKeyField   = "key"
	rowValueField = "value"
)

// Cache is an in-process mapping from lookup key to row. It has a single
// logical writer, the resync loop, and any number of concurrent readers.
// Rows are never removed, even when the field behind them disappears
// upstream.
type Cache struct {
	mu   sync.RWMutex
	rows map[string]enrichment.Row
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{rows: map[string]enrichment.Row{}}
}

// Upsert replaces the row stored under lookupKey.
func (cache *Cache) Upsert(lookupKey string, row enrichment.Row) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.rows[lookupKey] = row
}

// Lookup returns a copy of the row stored under lookupKey.
func (cache *Cache) Lookup(lookupKey string) (enrichment.Row, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	row, ok := cache.rows[lookupKey]
	if !ok {
		return nil, false
	}
	return slices.Clone(row), true
}

// Len returns the number of cached lookup keys.
func (cache *Cache) Len() int {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return len(cache.rows)
}

// Materialize folds the full hash record behind sourceKey into the
// cache: every field becomes a row {key: sourceKey, value: fieldValue}
// stored under the field name. An absent record is a no-op and does not
// clear previously cached fields. Materialize is idempotent; when two
// source keys share a field name the one materialized last wins.
func (cache *Cache) Materialize(sourceKey string, record map[string]string) {
	for field, value := range record {
		cache.Upsert(field, enrichment.Row{
			{Name: rowKeyField, Value: sourceKey},
			{Name: rowValueField, Value: value},
		})
	}
}
