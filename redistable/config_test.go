// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package redistable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConfigVerify(t *testing.T) {
	err := Config{Keys: []string{"app_map"}}.Verify()
	require.Error(t, err)

	err = Config{Addresses: []string{"localhost:6379"}}.Verify()
	require.Error(t, err)

	err = Config{
		Addresses: []string{"localhost:6379"},
		Keys:      []string{"app_map"},
		Transport: Transport("carrier-pigeon"),
	}.Verify()
	require.Error(t, err)

	err = Config{
		Addresses: []string{"localhost:6379"},
		Keys:      []string{"app_map"},
	}.Verify()
	require.NoError(t, err)
}

func TestNewAppliesDefaults(t *testing.T) {
	table, err := New(zaptest.NewLogger(t), Config{
		Addresses: []string{"localhost:6379"},
		Keys:      []string{"app_map"},
	})
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, table.config.RetryAfter)
	require.Equal(t, TransportStream, table.config.Transport)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(zaptest.NewLogger(t), Config{})
	require.Error(t, err)
	require.True(t, Error.Has(err))
}
