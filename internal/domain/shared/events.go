// Package shared contains the building blocks common to every domain module:
// domain events, the aggregate root base type and the dispatcher contract.
package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an in-process notification that something changed
// inside an aggregate. Domain events are never persisted; they live only
// between append and drain.
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	OccurredAt() time.Time
}

// EventHandler handles a single domain event. Errors returned from handlers
// are logged by the dispatcher and never propagate to the publisher.
type EventHandler func(ctx context.Context, event DomainEvent) error

// EventDispatcher delivers domain events to registered handlers.
type EventDispatcher interface {
	Register(eventName string, handler EventHandler)
	Publish(ctx context.Context, event DomainEvent)
}

// BaseEvent carries the identity and timestamp every domain event owns.
// Concrete events embed it and add their own payload fields.
type BaseEvent struct {
	id         uuid.UUID
	occurredAt time.Time
}

// NewBaseEvent creates the event identity at construction time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{
		id:         uuid.New(),
		occurredAt: time.Now().UTC(),
	}
}

// EventID returns the unique identifier of this event instance.
func (e BaseEvent) EventID() uuid.UUID {
	return e.id
}

// OccurredAt returns the UTC timestamp set at construction.
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}
