package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

// DefaultRedisChannel is used when no channel is configured.
const DefaultRedisChannel = "dayboard:changes"

// RedisBus publishes messages on one Redis pub/sub channel so that every
// process sharing a database sees the same changes.
type RedisBus struct {
	rc      *redis.Client
	channel string
	log     *slog.Logger
}

// NewRedisBus publishes and subscribes on channel. It owns rc.
func NewRedisBus(rc *redis.Client, channel string, log *slog.Logger) *RedisBus {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBus{
		rc:      rc,
		channel: channel,
		log:     log.With("component", "changefeed_redis", "channel", channel),
	}
}

// Publish sends msg to every subscribed process, this one included.
func (b *RedisBus) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := b.rc.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription. Incoming
// messages are queued as soon as they arrive so a slow reader never makes
// go-redis give up on delivery. Changes published while the connection is
// being re-established are lost.
func (b *RedisBus) Subscribe(ctx context.Context, filter Filter) (<-chan Message, error) {
	sub := b.rc.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", b.channel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	q := newQueue()
	out := make(chan Message, subscriberBuffer)
	go q.forward(ctx, out)

	go func() {
		defer cancel()
		defer sub.Close()

		in := sub.Channel(redis.WithChannelSize(subscriberBuffer))
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-in:
				if !ok {
					b.log.Warn("subscription channel closed")
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					b.log.Error("unable to parse change", "error", err)
					continue
				}
				if filter.Match(msg) {
					q.push(msg)
				}
			}
		}
	}()
	return out, nil
}

// Close closes the Redis client.
func (b *RedisBus) Close() error {
	return b.rc.Close()
}
