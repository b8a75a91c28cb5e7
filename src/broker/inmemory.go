package broker

import (
	"context"
	"sync"
	"time"
)

const subscriberBuffer = 100

// InMemoryBroker fans published messages out to every subscriber of a topic.
// Messages published before a subscription are not replayed.
type InMemoryBroker struct {
	mu          sync.Mutex
	subscribers map[string][]chan Message
	offsets     map[string]int64
	closed      bool

	// done is closed by Close to release publishers blocked on a full buffer.
	done     chan struct{}
	inflight sync.WaitGroup
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subscribers: make(map[string][]chan Message),
		offsets:     make(map[string]int64),
		done:        make(chan struct{}),
	}
}

// Publish delivers the message to all current subscribers of topic. It blocks
// while a subscriber's buffer is full, until ctx is done or the broker closes.
// No lock is held while blocked.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     append([]byte(nil), value...),
		Offset:    b.offsets[topic],
		Timestamp: time.Now().UnixMilli(),
	}
	b.offsets[topic]++
	subs := append([]chan Message(nil), b.subscribers[topic]...)
	b.inflight.Add(1)
	b.mu.Unlock()
	defer b.inflight.Done()

	for _, ch := range subs {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return ErrClosed
		}
	}
	return nil
}

// Subscribe registers a new subscriber. groupID is ignored. The channel is
// closed when the broker is closed.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	ch := make(chan Message, subscriberBuffer)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch, nil
}

// Close stops the broker. Blocked publishers return ErrClosed, then every
// subscriber channel is closed.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	subscribers := b.subscribers
	b.subscribers = nil
	b.mu.Unlock()

	b.inflight.Wait()
	for _, subs := range subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	return nil
}
