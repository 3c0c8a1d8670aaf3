// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package redistable

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"storj.io/enrichment/internal/errs2"
)

// EventKind distinguishes the notifications produced by a subscription.
type EventKind int

const (
	// KeyChanged indicates the hash behind Key was modified upstream.
	KeyChanged EventKind = iota
	// Disconnected indicates the transport reported loss of
	// connectivity.
	Disconnected
)

// Event is a single normalized change notification.
type Event struct {
	Kind EventKind
	Key  string
}

// eventStream is a sequential stream of change notifications. Both
// transport shapes are adapters implementing this interface, so the
// consuming loop does not depend on which one is active.
type eventStream interface {
	// Next blocks until the next event arrives. It returns an error when
	// the stream has ended or the context is done.
	Next(ctx context.Context) (Event, error)
	Close() error
}

func channelPrefix(db int) string {
	return fmt.Sprintf("__keyspace@%d__:", db)
}

func channelName(db int, key string) string {
	return channelPrefix(db) + key
}

// subscribe registers interest in change notifications for every
// configured key. Notifications are scoped to the owning key; individual
// field mutations arrive as a notification for that key.
func subscribe(ctx context.Context, client *redis.Client, config Config) (_ eventStream, err error) {
	defer mon.Task()(&ctx)(&err)

	channels := make([]string, 0, len(config.Keys))
	for _, key := range config.Keys {
		channels = append(channels, channelName(config.DB, key))
	}

	pubsub := client.PSubscribe(ctx, channels...)

	// the subscription reads block in the socket and do not observe ctx
	// on their own; close the subscription when ctx ends so that any
	// pending receive unblocks.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
		case <-stop:
		}
	}()

	// wait for the first subscription confirmation before handing the
	// stream out, so that no notification published afterwards is lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		close(stop)
		_ = pubsub.Close()
		return nil, Error.New("subscribe failed: %v", err)
	}

	recv := receiver{pubsub: pubsub, prefix: channelPrefix(config.DB), stop: stop}
	if config.Transport == TransportPush {
		return &pushStream{receiver: recv}, nil
	}
	return &channelStream{receiver: recv}, nil
}

// receiver consumes raw subscription traffic and decodes change
// notifications. Both adapters are built on it, since reading the
// connection directly is the only way to observe it failing.
type receiver struct {
	pubsub *redis.PubSub
	prefix string
	stop   chan struct{}
}

// next blocks until a change notification arrives. A transport failure
// is returned as an Error-classed error; cancellation is returned as the
// context's own error.
func (recv *receiver) next(ctx context.Context) (Event, error) {
	for {
		message, err := recv.pubsub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Event{}, ctx.Err()
			}
			if errs2.IsCanceled(err) {
				return Event{}, err
			}
			return Event{}, Error.New("receive failed: %v", err)
		}

		switch message := message.(type) {
		case *redis.Message:
			key, ok := strings.CutPrefix(message.Channel, recv.prefix)
			if !ok {
				continue
			}
			return Event{Kind: KeyChanged, Key: key}, nil
		case *redis.Subscription, *redis.Pong:
			// confirmations and keepalives are not changes
		}
	}
}

func (recv *receiver) Close() error {
	close(recv.stop)
	return recv.pubsub.Close()
}

// channelStream consumes notifications from a dedicated subscription
// stream. Loss of connectivity makes the stream end.
type channelStream struct {
	receiver
}

func (stream *channelStream) Next(ctx context.Context) (Event, error) {
	return stream.next(ctx)
}

// pushStream consumes notifications pushed onto the subscriber
// connection and reports loss of connectivity as an explicit
// Disconnected event instead of ending the stream.
type pushStream struct {
	receiver
}

func (stream *pushStream) Next(ctx context.Context) (Event, error) {
	event, err := stream.next(ctx)
	if err != nil && Error.Has(err) {
		return Event{Kind: Disconnected}, nil
	}
	return event, err
}
