// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package redistable implements an enrichment table backed by redis
// hashes, kept synchronized through keyspace notifications.
//
// A single background loop connects, loads every configured hash in
// full, then streams change notifications and refetches whatever
// changed. Any connectivity failure restarts the whole cycle after a
// fixed delay, for as long as the table lives. Lookups are served from
// the in-process cache and never touch the network, so an outage
// degrades the table to serving whatever was synchronized last instead
// of failing the pipeline.
package redistable

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/enrichment"
	"storj.io/enrichment/internal/errs2"
	"storj.io/enrichment/internal/sync2"
)

var (
	// Error is the class of redistable errors.
	Error = errs.Class("redistable")

	mon = monkit.Package()
)

// conditionField is the only field name lookups may match on.
const conditionField = "field"

// Table is an enrichment.Table serving point lookups against the fields
// of the configured redis hashes.
//
// architecture: Service
type Table struct {
	log    *zap.Logger
	config Config
	dialer *Dialer
	cache  *Cache
	ready  sync2.Fence

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

var _ enrichment.Table = (*Table)(nil)

// New creates a table. The returned table stays empty until the caller
// drives Run.
func New(log *zap.Logger, config Config) (*Table, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	if config.RetryAfter <= 0 {
		config.RetryAfter = DefaultRetryAfter
	}
	if config.Transport == "" {
		config.Transport = TransportStream
	}

	return &Table{
		log:    log,
		config: config,
		dialer: NewDialer(config),
		cache:  NewCache(),
	}, nil
}

// Open creates a table, starts its synchronization loop in the
// background and waits until the first bootstrap has completed, so that
// lookups can be trusted as soon as Open returns. The loop keeps
// retrying while Open waits; ctx bounds only how long the caller is
// willing to wait for readiness. The table must be Closed when no
// longer used.
func Open(ctx context.Context, log *zap.Logger, config Config) (*Table, error) {
	table, err := New(log, config)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	table.cancel = cancel
	table.done = make(chan struct{})

	go func() {
		defer close(table.done)
		if err := errs2.IgnoreCanceled(table.Run(runCtx)); err != nil {
			table.log.Error("synchronization loop exited", zap.Error(err))
		}
	}()

	if !table.ready.Wait(ctx) {
		_ = table.Close()
		return nil, Error.New("table did not become ready: %v", ctx.Err())
	}
	return table, nil
}

// Run synchronizes the cache until ctx is done. It is the only writer
// of the cache. Connectivity failures are logged and absorbed: each one
// restarts the connect, bootstrap, subscribe, stream cycle after the
// configured delay. There is no retry limit.
func (table *Table) Run(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)

	for {
		err := table.sync(ctx)
		if errs2.IsCanceled(err) {
			return err
		}

		mon.Event("redistable_resync_failed")
		table.log.Error("synchronization failed, retrying",
			zap.Duration("after", table.config.RetryAfter),
			zap.Error(err))

		if !sync2.Sleep(ctx, table.config.RetryAfter) {
			return ctx.Err()
		}
	}
}

// Close stops the background loop started by Open and waits for it to
// exit. It is a no-op for tables built with New, whose loop is bound to
// the Run context instead.
func (table *Table) Close() error {
	table.closeOnce.Do(func() {
		if table.cancel != nil {
			table.cancel()
			<-table.done
		}
	})
	return nil
}

// Ready returns a channel that is closed once the first bootstrap and
// subscription have completed.
func (table *Table) Ready() <-chan struct{} {
	return table.ready.Done()
}

// Rows returns the number of cached lookup keys.
func (table *Table) Rows() int {
	return table.cache.Len()
}

// sync performs one full synchronization cycle: connect, bootstrap every
// configured key, subscribe, then apply change notifications until the
// stream fails. It never returns nil; the stream ending is a failure.
func (table *Table) sync(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)

	client, err := table.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, client.Close()) }()

	if err := table.bootstrap(ctx, client); err != nil {
		return err
	}

	events, err := subscribe(ctx, client, table.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, events.Close()) }()

	table.ready.Release()
	table.log.Info("table synchronized, streaming changes",
		zap.Int("rows", table.cache.Len()))

	for {
		event, err := events.Next(ctx)
		if err != nil {
			return err
		}

		switch event.Kind {
		case Disconnected:
			return Error.New("subscription reported disconnect")
		case KeyChanged:
			// refetch the full record rather than applying a delta, to
			// tolerate coalesced or reordered notifications.
			if err := table.refresh(ctx, client, event.Key); err != nil {
				return err
			}
		}
	}
}

// bootstrap loads the full record of every configured key. A single
// failure aborts the pass; a partially loaded table is never declared
// ready.
func (table *Table) bootstrap(ctx context.Context, client *redis.Client) (err error) {
	defer mon.Task()(&ctx)(&err)

	for _, key := range table.config.Keys {
		if err := table.refresh(ctx, client, key); err != nil {
			return err
		}
	}
	return nil
}

// refresh fetches the full hash behind key and folds it into the cache.
func (table *Table) refresh(ctx context.Context, client *redis.Client, key string) (err error) {
	defer mon.Task()(&ctx)(&err)

	record, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return Error.New("fetching %q failed: %v", key, err)
	}
	table.cache.Materialize(key, record)
	return nil
}

// FindOne returns the row matching a single equality condition on
// "field". Any other condition shape is a usage error, distinct from a
// lookup that matches nothing.
func (table *Table) FindOne(conditions []enrichment.Condition) (enrichment.Row, error) {
	if len(conditions) != 1 {
		return nil, enrichment.ErrInvalidCondition.New("expected exactly one condition, got %d", len(conditions))
	}
	condition := conditions[0]
	if condition.Field != conditionField {
		return nil, enrichment.ErrInvalidCondition.New("only equality on %q is supported", conditionField)
	}

	row, ok := table.cache.Lookup(condition.Equals)
	if !ok {
		return nil, enrichment.ErrNotFound.New("%q", condition.Equals)
	}
	return row, nil
}

// FindMany is FindOne wrapped as a sequence of rows.
func (table *Table) FindMany(conditions []enrichment.Condition) ([]enrichment.Row, error) {
	row, err := table.FindOne(conditions)
	if err != nil {
		return nil, err
	}
	return []enrichment.Row{row}, nil
}

// RegisterIndex accepts any index registration; the table keeps no
// secondary indexes.
func (table *Table) RegisterIndex(fields ...string) (enrichment.IndexHandle, error) {
	return enrichment.IndexHandle(0), nil
}

// Indexes returns the indexed field sets, of which there are none.
func (table *Table) Indexes() [][]string { return nil }

// NeedsReload is always false, the table refreshes itself continuously.
func (table *Table) NeedsReload() bool { return false }
