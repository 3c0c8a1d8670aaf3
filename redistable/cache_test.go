// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package redistable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/enrichment"
)

func TestCacheMaterialize(t *testing.T) {
	cache := NewCache()

	cache.Materialize("app_map", map[string]string{
		"svc-1": "prod",
		"svc-2": "staging",
	})

	row, ok := cache.Lookup("svc-1")
	require.True(t, ok)
	require.Equal(t, enrichment.Row{
		{Name: "key", Value: "app_map"},
		{Name: "value", Value: "prod"},
	}, row)

	_, ok = cache.Lookup("svc-9")
	require.False(t, ok)
	require.Equal(t, 2, cache.Len())
}

func TestCacheMaterializeIdempotent(t *testing.T) {
	cache := NewCache()
	record := map[string]string{"svc-1": "prod", "svc-2": "staging"}

	cache.Materialize("app_map", record)
	cache.Materialize("app_map", record)

	require.Equal(t, 2, cache.Len())
	row, ok := cache.Lookup("svc-2")
	require.True(t, ok)
	value, _ := row.Get("value")
	require.Equal(t, "staging", value)
}

func TestCacheLastWriteWins(t *testing.T) {
	cache := NewCache()

	cache.Materialize("first", map[string]string{"shared": "one"})
	cache.Materialize("second", map[string]string{"shared": "two"})

	row, ok := cache.Lookup("shared")
	require.True(t, ok)
	key, _ := row.Get("key")
	value, _ := row.Get("value")
	require.Equal(t, "second", key)
	require.Equal(t, "two", value)

	cache.Materialize("first", map[string]string{"shared": "one"})
	row, _ = cache.Lookup("shared")
	key, _ = row.Get("key")
	require.Equal(t, "first", key)
}

func TestCacheNoDelete(t *testing.T) {
	cache := NewCache()

	cache.Materialize("app_map", map[string]string{"svc-1": "prod"})
	// the field disappeared upstream; the record no longer mentions it
	cache.Materialize("app_map", map[string]string{"svc-2": "staging"})
	// an absent record is a no-op as well
	cache.Materialize("app_map", nil)

	row, ok := cache.Lookup("svc-1")
	require.True(t, ok)
	value, _ := row.Get("value")
	require.Equal(t, "prod", value)
}

func TestCacheLookupReturnsCopy(t *testing.T) {
	cache := NewCache()
	cache.Materialize("app_map", map[string]string{"svc-1": "prod"})

	row, ok := cache.Lookup("svc-1")
	require.True(t, ok)
	row[1].Value = "mangled"

	fresh, _ := cache.Lookup("svc-1")
	value, _ := fresh.Get("value")
	require.Equal(t, "prod", value)
}
