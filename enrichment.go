// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package enrichment defines the lookup contract between an enrichment
// table and the pipeline workers that query it while processing records.
package enrichment

import (
	"github.com/zeebo/errs"
)

var (
	// ErrNotFound is returned by a valid lookup that matches no row.
	ErrNotFound = errs.Class("row not found")

	// ErrInvalidCondition is returned when a lookup is malformed, for
	// example when it has the wrong number of conditions or refers to a
	// field the table cannot match on. It is distinct from ErrNotFound.
	ErrInvalidCondition = errs.Class("invalid condition")
)

// Field is a single named value inside a Row.
type Field struct {
	Name  string
	Value string
}

// Row is an ordered set of fields returned by a lookup.
type Row []Field

// Get returns the value of the named field.
func (row Row) Get(name string) (string, bool) {
	for _, field := range row {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Condition restricts which rows a lookup matches. Only equality is
// supported: the row must contain Field equal to Equals.
type Condition struct {
	Field  string
	Equals string
}

// IndexHandle refers to a registered index of a table.
type IndexHandle int

// Table is a queryable enrichment table. Implementations must be safe for
// concurrent use and must serve lookups without blocking on I/O.
type Table interface {
	// FindOne returns the single row matching conditions.
	FindOne(conditions []Condition) (Row, error)
	// FindMany returns all rows matching conditions.
	FindMany(conditions []Condition) ([]Row, error)
	// RegisterIndex prepares an index over the given fields for tables
	// that support one.
	RegisterIndex(fields ...string) (IndexHandle, error)
	// Indexes returns the field sets that have been indexed.
	Indexes() [][]string
	// NeedsReload reports whether the table must be reloaded by the
	// caller to observe fresh data.
	NeedsReload() bool
}
