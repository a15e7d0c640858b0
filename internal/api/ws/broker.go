package ws

import (
	"context"
	"sync"
)

// Broker moves serialized board events between publishers and WebSocket
// subscribers of the same tenant. *redis.BoardBroker satisfies it for
// multi-instance deployments.
type Broker interface {
	Publish(ctx context.Context, tenantID string, payload []byte) error
	Subscribe(ctx context.Context, tenantID string) (<-chan []byte, func(), error)
}

// LocalBroker is an in-process Broker used when Redis is not configured.
// Slow subscribers drop messages rather than block publishers.
type LocalBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{} // by tenant
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[chan []byte]struct{})}
}

func (b *LocalBroker) Publish(_ context.Context, tenantID string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[tenantID] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, tenantID string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 64)

	b.mu.Lock()
	if b.subs[tenantID] == nil {
		b.subs[tenantID] = make(map[chan []byte]struct{})
	}
	b.subs[tenantID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[tenantID], ch)
			if len(b.subs[tenantID]) == 0 {
				delete(b.subs, tenantID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cleanup()
	}()

	return ch, cleanup, nil
}
