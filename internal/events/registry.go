// internal/events/registry.go
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownEvent is returned when decoding an event type nobody registered.
var ErrUnknownEvent = errors.New("unknown event type")

// Registry decodes persisted events back into their concrete types.
type Registry struct {
	factories map[string]func() Event
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() Event)}
}

// Register maps eventType to a constructor of its zero value.
func (r *Registry) Register(eventType string, factory func() Event) {
	r.factories[eventType] = factory
}

// Types returns the registered event types in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Decode turns a raw log row into its concrete event.
func (r *Registry) Decode(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", raw.EventType, err)
	}
	return event, nil
}

// DefaultRegistry knows every library event.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventEpisodeCreated, func() Event { return &EpisodeCreated{} })
	r.Register(EventEpisodeEdited, func() Event { return &EpisodeEdited{} })
	r.Register(EventEpisodeDeleted, func() Event { return &EpisodeDeleted{} })
	return r
}
