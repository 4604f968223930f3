package shared

import "time"

// Aggregate is the view of an aggregate root the persistence layer needs:
// draining pending events and stamping audit fields around a save cycle.
type Aggregate interface {
	DrainEvents() []DomainEvent
	HasPendingEvents() bool
	StampCreated(at time.Time, by string)
	StampModified(at time.Time, by string)
}

// SoftDeletable is implemented by aggregates whose physical removal is
// converted into a flagged modification by the save interceptor.
type SoftDeletable interface {
	MarkDeleted(at time.Time, by string)
}

// AggregateRoot is the base type for aggregate roots. It owns the pending
// domain event buffer and the audit fields stamped by the save interceptor.
// The buffer is append-only until drained; order of append is order of
// dispatch.
type AggregateRoot struct {
	events []DomainEvent

	createdAt      time.Time
	createdBy      string
	lastModifiedAt time.Time
	lastModifiedBy string
}

// AddEvent appends a domain event to the pending buffer.
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// DrainEvents returns all pending events and empties the buffer. Events
// appended after a drain do not resurrect previously drained ones.
func (a *AggregateRoot) DrainEvents() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}

// HasPendingEvents reports whether any events are waiting to be drained.
func (a *AggregateRoot) HasPendingEvents() bool {
	return len(a.events) > 0
}

// StampCreated records the audit fields for a newly created aggregate.
func (a *AggregateRoot) StampCreated(at time.Time, by string) {
	a.createdAt = at
	a.createdBy = by
	a.lastModifiedAt = at
	a.lastModifiedBy = by
}

// StampModified records the audit fields for a modified aggregate.
func (a *AggregateRoot) StampModified(at time.Time, by string) {
	a.lastModifiedAt = at
	a.lastModifiedBy = by
}

// RestoreAudit rehydrates audit fields from storage without touching the
// event buffer. Used only by persistence mappers.
func (a *AggregateRoot) RestoreAudit(createdAt time.Time, createdBy string, modifiedAt time.Time, modifiedBy string) {
	a.createdAt = createdAt
	a.createdBy = createdBy
	a.lastModifiedAt = modifiedAt
	a.lastModifiedBy = modifiedBy
}

// CreatedAt returns when the aggregate was created.
func (a *AggregateRoot) CreatedAt() time.Time {
	return a.createdAt
}

// CreatedBy returns who created the aggregate.
func (a *AggregateRoot) CreatedBy() string {
	return a.createdBy
}

// LastModifiedAt returns when the aggregate was last modified.
func (a *AggregateRoot) LastModifiedAt() time.Time {
	return a.lastModifiedAt
}

// LastModifiedBy returns who last modified the aggregate.
func (a *AggregateRoot) LastModifiedBy() string {
	return a.lastModifiedBy
}
