// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package enrichment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/enrichment"
)

func TestRowGet(t *testing.T) {
	row := enrichment.Row{
		{Name: "key", Value: "app_map"},
		{Name: "value", Value: "prod"},
	}

	value, ok := row.Get("key")
	require.True(t, ok)
	require.Equal(t, "app_map", value)

	value, ok = row.Get("value")
	require.True(t, ok)
	require.Equal(t, "prod", value)

	_, ok = row.Get("missing")
	require.False(t, ok)
}

func TestErrorClassesAreDistinct(t *testing.T) {
	notFound := enrichment.ErrNotFound.New("%q", "svc-9")
	invalid := enrichment.ErrInvalidCondition.New("expected exactly one condition")

	require.True(t, enrichment.ErrNotFound.Has(notFound))
	require.False(t, enrichment.ErrInvalidCondition.Has(notFound))

	require.True(t, enrichment.ErrInvalidCondition.Has(invalid))
	require.False(t, enrichment.ErrNotFound.Has(invalid))
}
