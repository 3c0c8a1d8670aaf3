// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information

package sync2

import (
	"context"
	"time"
)

// Sleep implements sleeping with cancellation.
// It returns false when the context was canceled before the full duration elapsed.
func Sleep(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
