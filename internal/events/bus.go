package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// allEvents keys subscriptions that receive every event type.
const allEvents = "*"

// Bus fans library events out to subscribers and optionally records them.
// Delivery never blocks the publisher: a full subscriber misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]chan Event // event type (or allEvents) -> channels
	log    *EventLog               // may be nil
	logger *slog.Logger
	closed bool
}

// NewBus creates a bus. A nil log disables persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[string][]chan Event),
		log:    log,
		logger: logger,
	}
}

// Publish records e and hands it to matching subscribers.
// A persistence failure is logged and does not stop delivery.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	if b.log != nil {
		if _, err := b.log.Append(ctx, e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	for _, key := range []string{e.EventType(), allEvents} {
		for _, ch := range b.subs[key] {
			select {
			case ch <- e:
			default:
				b.logger.Warn("subscriber channel full, dropping event",
					"type", e.EventType(),
					"entity_type", e.EntityType(),
					"entity_id", e.EntityID(),
					"entity_slug", e.EntitySlug())
			}
		}
	}
	return nil
}

// Subscribe returns a channel receiving events of one type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.subscribe(eventType, bufferSize)
}

// SubscribeAll returns a channel receiving every event.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.subscribe(allEvents, bufferSize)
}

func (b *Bus) subscribe(key string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[key] = append(b.subs[key], ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, chans := range b.subs {
		i := slices.IndexFunc(chans, func(c chan Event) bool { return c == ch })
		if i < 0 {
			continue
		}
		close(chans[i])
		b.subs[key] = slices.Delete(chans, i, i+1)
		return
	}
}

// Close closes every subscription. Later publishes are dropped.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, chans := range b.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.subs = nil
	return nil
}
