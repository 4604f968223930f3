package gorm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/modushop/v2/internal/domain/shared"
	"github.com/modushop/v2/internal/ports/outbound"
)

type txKey struct{}

// WithTx binds a transaction to the context so repositories participate in
// the surrounding unit of work.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// dbFromContext returns the bound transaction, or the fallback handle when
// the operation runs outside a unit of work.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// TxRunner executes fn atomically. The gorm implementation opens a database
// transaction; tests substitute plain sequential runners.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// NewGormTxRunner wraps fn in a database transaction and binds the
// transaction handle to the context.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(WithTx(ctx, tx))
		})
	}
}

type changeKind int

const (
	changeNew changeKind = iota
	changeDirty
	changeRemoved
)

// change tracks one aggregate scheduled for persistence.
type change struct {
	aggregate shared.Aggregate
	kind      changeKind
	persist   func(ctx context.Context) error
	remove    func(ctx context.Context) error
}

// SaveInterceptor implements the three-phase save protocol: before the
// commit it stamps audit fields, converts removals of soft-deletable
// aggregates into flagged updates and drains pending domain events; after a
// successful commit it dispatches the drained events; after a failed commit
// it discards them.
type SaveInterceptor struct {
	dispatcher shared.EventDispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewSaveInterceptor creates the interceptor.
func NewSaveInterceptor(dispatcher shared.EventDispatcher, logger *zap.Logger) *SaveInterceptor {
	return &SaveInterceptor{
		dispatcher: dispatcher,
		logger:     logger.Named("save-interceptor"),
		now:        time.Now,
	}
}

// prepare stamps audit fields, converts soft deletes and drains events in
// change order. Called once per commit attempt, before the transaction.
func (s *SaveInterceptor) prepare(ctx context.Context, changes []change) []shared.DomainEvent {
	now := s.now().UTC()
	actor := outbound.ActorFromContext(ctx)

	var events []shared.DomainEvent
	for i := range changes {
		c := &changes[i]
		switch c.kind {
		case changeNew:
			c.aggregate.StampCreated(now, actor)
		case changeDirty:
			c.aggregate.StampModified(now, actor)
		case changeRemoved:
			if soft, ok := c.aggregate.(shared.SoftDeletable); ok {
				soft.MarkDeleted(now, actor)
				c.aggregate.StampModified(now, actor)
				c.kind = changeDirty
				c.remove = nil
			}
		}
		events = append(events, c.aggregate.DrainEvents()...)
	}
	return events
}

// dispatch delivers events after a successful commit according to the mode.
func (s *SaveInterceptor) dispatch(ctx context.Context, events []shared.DomainEvent, mode outbound.DispatchMode) {
	if len(events) == 0 {
		return
	}

	deliver := func(ctx context.Context) {
		for _, event := range events {
			s.dispatcher.Publish(ctx, event)
		}
	}

	switch mode {
	case outbound.DispatchDetached:
		go deliver(context.WithoutCancel(ctx))
	default:
		deliver(ctx)
	}
}

// discard drops events drained before a failed commit. The corresponding
// state change never became durable, so delivering them would announce
// something that did not happen.
func (s *SaveInterceptor) discard(events []shared.DomainEvent, cause error) {
	if len(events) == 0 {
		return
	}
	names := make([]string, len(events))
	for i, event := range events {
		names[i] = event.EventName()
	}
	s.logger.Warn("discarding domain events after failed commit",
		zap.Int("count", len(events)),
		zap.Strings("events", names),
		zap.Error(cause),
	)
}

// UnitOfWork implements outbound.UnitOfWork through the save interceptor.
// A unit of work is single-use: create one per operation, mark changes,
// commit once.
type UnitOfWork struct {
	interceptor *SaveInterceptor
	runner      TxRunner
	mode        outbound.DispatchMode
	changes     []change
	committed   bool
}

// NewUnitOfWorkFactory wires the interceptor and transaction runner into the
// factory the application services consume.
func NewUnitOfWorkFactory(interceptor *SaveInterceptor, runner TxRunner) outbound.UnitOfWorkFactory {
	return func(mode outbound.DispatchMode) outbound.UnitOfWork {
		return &UnitOfWork{
			interceptor: interceptor,
			runner:      runner,
			mode:        mode,
		}
	}
}

// MarkNew schedules a freshly created aggregate for insertion.
func (u *UnitOfWork) MarkNew(aggregate shared.Aggregate, persist func(ctx context.Context) error) {
	u.changes = append(u.changes, change{aggregate: aggregate, kind: changeNew, persist: persist})
}

// MarkDirty schedules a loaded, mutated aggregate for update.
func (u *UnitOfWork) MarkDirty(aggregate shared.Aggregate, persist func(ctx context.Context) error) {
	u.changes = append(u.changes, change{aggregate: aggregate, kind: changeDirty, persist: persist})
}

// MarkRemoved schedules an aggregate for removal. Aggregates implementing
// SoftDeletable are flagged and updated via persist; everything else is
// physically deleted via remove.
func (u *UnitOfWork) MarkRemoved(aggregate shared.Aggregate, persist, remove func(ctx context.Context) error) {
	u.changes = append(u.changes, change{aggregate: aggregate, kind: changeRemoved, persist: persist, remove: remove})
}

// Commit runs the three-phase save protocol. Events are dispatched only when
// the transaction committed; on failure they are discarded and the error is
// returned.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.committed {
		return fmt.Errorf("unit of work already committed")
	}
	u.committed = true

	if len(u.changes) == 0 {
		return nil
	}

	events := u.interceptor.prepare(ctx, u.changes)

	err := u.runner(ctx, func(ctx context.Context) error {
		for _, c := range u.changes {
			op := c.persist
			if c.kind == changeRemoved && c.remove != nil {
				op = c.remove
			}
			if op == nil {
				continue
			}
			if err := op(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		u.interceptor.discard(events, err)
		return fmt.Errorf("unit of work commit failed: %w", err)
	}

	u.interceptor.dispatch(ctx, events, u.mode)
	return nil
}
