// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package redistable

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Dialer opens connections to the redis deployment described by a
// Config. When MasterName is set the configured addresses are treated as
// sentinels and the current master is resolved through them, otherwise
// the first address is dialed directly. Either way the caller receives a
// verified connection or an error; retry policy belongs to the caller.
type Dialer struct {
	config Config
}

// NewDialer creates a dialer for the given configuration.
func NewDialer(config Config) *Dialer {
	return &Dialer{config: config}
}

// Dial opens a connection and verifies it with a ping.
func (dialer *Dialer) Dial(ctx context.Context) (_ *redis.Client, err error) {
	defer mon.Task()(&ctx)(&err)

	var client *redis.Client
	if dialer.config.MasterName != "" {
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    dialer.config.MasterName,
			SentinelAddrs: dialer.config.Addresses,
			Password:      dialer.config.Password,
			DB:            dialer.config.DB,
			MaxRetries:    -1,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:       dialer.config.Addresses[0],
			Password:   dialer.config.Password,
			DB:         dialer.config.DB,
			MaxRetries: -1,
		})
	}

	// ping here to verify we are able to connect with the initialized client.
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, Error.New("ping failed: %v", err)
	}

	return client, nil
}
