// Package redis carries board events between server instances over Redis
// pub/sub, one channel per tenant.
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultPrefix namespaces board channels: "nexus:board:<tenantID>".
const DefaultPrefix = "nexus:board:"

const subscriberBuffer = 64

// BoardBroker publishes serialized board events to a tenant's channel and
// streams them back to subscribers on any instance. It satisfies ws.Broker.
type BoardBroker struct {
	client *redis.Client
	prefix string
}

type Option func(*BoardBroker)

// WithPrefix replaces DefaultPrefix, for example to share one Redis between
// deployments.
func WithPrefix(prefix string) Option {
	return func(b *BoardBroker) { b.prefix = prefix }
}

// NewBoardBroker wraps an existing client. The broker owns the client from
// then on and closes it in Close.
func NewBoardBroker(client *redis.Client, opts ...Option) *BoardBroker {
	b := &BoardBroker{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dial connects to Redis and checks the connection before returning.
func Dial(ctx context.Context, addr, password string, db int, opts ...Option) (*BoardBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.Dial: ping %s: %w", addr, err)
	}

	return NewBoardBroker(client, opts...), nil
}

// Channel is the Redis channel carrying tenantID's board.
func (b *BoardBroker) Channel(tenantID string) string {
	return b.prefix + tenantID
}

func (b *BoardBroker) Publish(ctx context.Context, tenantID string, payload []byte) error {
	receivers, err := b.client.Publish(ctx, b.Channel(tenantID), payload).Result()
	if err != nil {
		return fmt.Errorf("redis.BoardBroker.Publish: %w", err)
	}
	log.Debug().Str("tenant_id", tenantID).Int64("receivers", receivers).Msg("board event published")
	return nil
}

// Subscribe streams tenantID's board payloads until ctx is done or cleanup is
// called. A subscriber that falls behind loses events instead of stalling the
// Redis connection.
func (b *BoardBroker) Subscribe(ctx context.Context, tenantID string) (<-chan []byte, func(), error) {
	sub := b.client.Subscribe(ctx, b.Channel(tenantID))

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.BoardBroker.Subscribe: %w", err)
	}

	in := sub.Channel(redis.WithChannelSize(subscriberBuffer))
	out := make(chan []byte, subscriberBuffer)

	var once sync.Once
	cleanup := func() {
		once.Do(func() { _ = sub.Close() })
	}

	go func() {
		defer close(out)
		defer cleanup()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					log.Debug().Str("tenant_id", tenantID).Msg("board subscriber behind, event dropped")
				}
			}
		}
	}()

	return out, cleanup, nil
}

func (b *BoardBroker) Close() error {
	if err := b.client.Close(); err != nil {
		return fmt.Errorf("redis.BoardBroker.Close: %w", err)
	}
	return nil
}
