package outbound

import (
	"context"

	"github.com/modushop/v2/internal/domain/shared"
)

// DispatchMode controls how collected domain events are delivered after a
// successful commit.
type DispatchMode int

const (
	// DispatchAndWait delivers events synchronously before Commit returns.
	DispatchAndWait DispatchMode = iota
	// DispatchDetached delivers events on a separate goroutine; Commit
	// returns as soon as the transaction is durable.
	DispatchDetached
)

// UnitOfWork collects aggregate changes and commits them atomically. Domain
// events drained from the tracked aggregates are dispatched only after the
// commit succeeds; a failed commit discards them. A unit of work is
// single-use.
type UnitOfWork interface {
	MarkNew(aggregate shared.Aggregate, persist func(ctx context.Context) error)
	MarkDirty(aggregate shared.Aggregate, persist func(ctx context.Context) error)
	MarkRemoved(aggregate shared.Aggregate, persist, remove func(ctx context.Context) error)
	Commit(ctx context.Context) error
}

// UnitOfWorkFactory creates a unit of work per application operation.
type UnitOfWorkFactory func(mode DispatchMode) UnitOfWork

type actorKey struct{}

// WithActor records who is performing the current operation. The persistence
// layer stamps this onto audit columns when committing.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the current actor, defaulting to "system".
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return "system"
}
