package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvent struct {
	BaseEvent
	name string
}

func (e stubEvent) EventName() string { return e.name }

func newStubEvent(name string) stubEvent {
	return stubEvent{BaseEvent: NewBaseEvent(), name: name}
}

func TestAggregateRootEventBuffer(t *testing.T) {
	t.Run("DrainReturnsEventsInAppendOrder", func(t *testing.T) {
		var root AggregateRoot
		first := newStubEvent("first")
		second := newStubEvent("second")

		root.AddEvent(first)
		root.AddEvent(second)

		require.True(t, root.HasPendingEvents())

		drained := root.DrainEvents()
		require.Len(t, drained, 2)
		assert.Equal(t, "first", drained[0].EventName())
		assert.Equal(t, "second", drained[1].EventName())
	})

	t.Run("DrainEmptiesBuffer", func(t *testing.T) {
		var root AggregateRoot
		root.AddEvent(newStubEvent("only"))

		_ = root.DrainEvents()

		assert.False(t, root.HasPendingEvents())
		assert.Empty(t, root.DrainEvents())
	})

	t.Run("EventsAppendedAfterDrainDoNotResurrectDrainedOnes", func(t *testing.T) {
		var root AggregateRoot
		root.AddEvent(newStubEvent("before"))
		_ = root.DrainEvents()

		root.AddEvent(newStubEvent("after"))

		drained := root.DrainEvents()
		require.Len(t, drained, 1)
		assert.Equal(t, "after", drained[0].EventName())
	})
}

func TestBaseEventIdentity(t *testing.T) {
	a := NewBaseEvent()
	b := NewBaseEvent()

	assert.NotEqual(t, uuid.Nil, a.EventID())
	assert.NotEqual(t, a.EventID(), b.EventID())
	assert.WithinDuration(t, time.Now().UTC(), a.OccurredAt(), 5*time.Second)
	assert.Equal(t, time.UTC, a.OccurredAt().Location())
}

func TestAuditStamps(t *testing.T) {
	var root AggregateRoot
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	modified := created.Add(time.Hour)

	root.StampCreated(created, "system")
	assert.Equal(t, created, root.CreatedAt())
	assert.Equal(t, "system", root.CreatedBy())
	assert.Equal(t, created, root.LastModifiedAt())

	root.StampModified(modified, "admin")
	assert.Equal(t, created, root.CreatedAt())
	assert.Equal(t, modified, root.LastModifiedAt())
	assert.Equal(t, "admin", root.LastModifiedBy())
}
