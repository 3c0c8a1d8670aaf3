// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package errs2

import (
	"context"
	"errors"
)

// IsCanceled returns true when the error is caused by a canceled or
// expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// IgnoreCanceled returns nil when the error is caused by a canceled or
// expired context, otherwise it returns the error unchanged.
func IgnoreCanceled(err error) error {
	if IsCanceled(err) {
		return nil
	}
	return err
}
