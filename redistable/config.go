// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package redistable

import (
	"time"
)

// DefaultRetryAfter is how long the resync loop waits before starting
// over after a connectivity failure.
const DefaultRetryAfter = 5 * time.Second

// Transport selects how change notifications are consumed.
type Transport string

const (
	// TransportStream consumes notifications from a dedicated
	// subscription stream.
	TransportStream Transport = "stream"
	// TransportPush consumes notifications pushed onto the subscriber
	// connection, which additionally surfaces an explicit disconnect
	// signal.
	TransportPush Transport = "push"
)

// Config describes the redis deployment a table synchronizes from.
type Config struct {
	Addresses  []string      `help:"redis address as host:port, or the sentinel addresses when master-name is set"`
	Password   string        `help:"password for connecting to redis" default:""`
	DB         int           `help:"redis database holding the tracked hashes" default:"0"`
	Keys       []string      `help:"redis hash keys to keep synchronized"`
	MasterName string        `help:"sentinel master name, enables resolving the master through the configured addresses" default:""`
	RetryAfter time.Duration `help:"how long to wait before retrying after a connectivity failure" default:"5s"`
	Transport  Transport     `help:"notification transport, stream or push" default:"stream"`
}

// Verify checks that the configuration describes a usable deployment.
func (config Config) Verify() error {
	if len(config.Addresses) == 0 {
		return Error.New("at least one address is required")
	}
	if len(config.Keys) == 0 {
		return Error.New("at least one key is required")
	}
	switch config.Transport {
	case "", TransportStream, TransportPush:
	default:
		return Error.New("unknown transport %q", config.Transport)
	}
	return nil
}
