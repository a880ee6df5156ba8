// Package events provides the library event bus and its persistent log.
package events

import "time"

// Entity types.
const (
	EntityEpisode = "episode"
	EntityShow    = "show"
)

// Event is implemented by everything published on the Bus. Entities are
// addressed both by row ID and by slug; the slug survives deletion of the
// row and is what users type.
type Event interface {
	EventType() string
	EntityType() string
	EntityID() int64
	EntitySlug() string
	OccurredAt() time.Time
}

// BaseEvent carries the addressing shared by all library events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Slug      string    `json:"slug,omitempty"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) EntitySlug() string    { return e.Slug }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event about the entity (entityType, id, slug)
// with the current UTC time.
func NewBaseEvent(eventType, entityType string, id int64, slug string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        id,
		Slug:      slug,
		Timestamp: time.Now().UTC(),
	}
}
