// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package testcontext implements a context for testing that tracks
// goroutines started by the test and fails the test when they error.
package testcontext

import (
	"context"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 3 * time.Minute

// Context extends context.Context with test helpers.
type Context struct {
	context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	test   testing.TB
}

// New creates a test context with a default timeout.
func New(test testing.TB) *Context {
	return NewWithTimeout(test, defaultTimeout)
}

// NewWithTimeout creates a test context with a given timeout.
func NewWithTimeout(test testing.TB, timeout time.Duration) *Context {
	parent, cancel := context.WithTimeout(context.Background(), timeout)
	group, ctx := errgroup.WithContext(parent)

	return &Context{
		Context: ctx,
		cancel:  cancel,
		group:   group,
		test:    test,
	}
}

// Go runs fn in a tracked goroutine. Call Wait or Cleanup to check the
// result.
func (ctx *Context) Go(fn func() error) {
	ctx.test.Helper()
	ctx.group.Go(fn)
}

// Check calls fn and fails the test on error.
func (ctx *Context) Check(fn func() error) {
	ctx.test.Helper()
	if err := fn(); err != nil {
		ctx.test.Fatal(err)
	}
}

// Wait blocks until all tracked goroutines have finished and fails the
// test when any of them errored.
func (ctx *Context) Wait() {
	ctx.test.Helper()
	if err := ctx.group.Wait(); err != nil {
		ctx.test.Fatal(err)
	}
}

// Cleanup cancels the context and waits for the tracked goroutines to
// finish, ignoring their errors. It is intended to be deferred.
func (ctx *Context) Cleanup() {
	ctx.cancel()
	_ = ctx.group.Wait()
}
