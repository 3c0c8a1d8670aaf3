// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information

package sync2_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storj.io/enrichment/internal/sync2"
)

func TestFence(t *testing.T) {
	var fence sync2.Fence
	require.False(t, fence.Released())

	released := make(chan bool, 1)
	go func() {
		released <- fence.Wait(context.Background())
	}()

	fence.Release()
	fence.Release()

	require.True(t, <-released)
	require.True(t, fence.Released())
	require.True(t, fence.Wait(context.Background()))

	select {
	case <-fence.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestFenceWaitCanceled(t *testing.T) {
	var fence sync2.Fence

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.False(t, fence.Wait(ctx))
}

func TestSleep(t *testing.T) {
	require.True(t, sync2.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, sync2.Sleep(ctx, time.Minute))
}
