// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information

package sync2

import (
	"context"
	"sync"
)

// Fence allows multiple goroutines to wait for a one-time event.
type Fence struct {
	init    sync.Once
	release sync.Once
	done    chan struct{}
}

func (fence *Fence) setup() {
	fence.init.Do(func() {
		fence.done = make(chan struct{})
	})
}

// Release releases everyone waiting on the fence. Calling it multiple
// times is safe.
func (fence *Fence) Release() {
	fence.setup()
	fence.release.Do(func() { close(fence.done) })
}

// Wait waits for the fence to be released or for the context to be
// canceled, whichever comes first. It returns true when the fence was
// released.
func (fence *Fence) Wait(ctx context.Context) bool {
	fence.setup()

	select {
	case <-fence.done:
		return true
	default:
		select {
		case <-fence.done:
			return true
		case <-ctx.Done():
			return false
		}
	}
}

// Released reports whether the fence has been released.
func (fence *Fence) Released() bool {
	fence.setup()

	select {
	case <-fence.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the fence is released.
func (fence *Fence) Done() chan struct{} {
	fence.setup()
	return fence.done
}
