// Package events contains the in-process domain event dispatcher and the
// bridge that turns selected domain events into integration events on the
// message bus.
package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/shared"
)

// Dispatcher delivers domain events to handlers registered by event name.
// Handlers run synchronously in registration order. A failing handler is
// logged and skipped; it never stops delivery to the remaining handlers and
// never surfaces to the publisher.
type Dispatcher struct {
	logger  *zap.Logger
	metrics *Metrics

	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
}

// NewDispatcher creates an empty dispatcher. Metrics may be nil.
func NewDispatcher(logger *zap.Logger, metrics *Metrics) *Dispatcher {
	return &Dispatcher{
		logger:   logger.Named("dispatcher"),
		metrics:  metrics,
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register appends a handler to the list for the given event name.
func (d *Dispatcher) Register(eventName string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Publish delivers one event to every registered handler. Events with no
// registered handlers are dropped silently.
func (d *Dispatcher) Publish(ctx context.Context, event shared.DomainEvent) {
	d.mu.RLock()
	handlers := d.handlers[event.EventName()]
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.metrics.EventDispatched(event.EventName())
		if err := d.invoke(ctx, handler, event); err != nil {
			d.metrics.HandlerFailed(event.EventName())
			d.logger.Error("event handler failed",
				zap.String("event_name", event.EventName()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

// invoke runs one handler, converting a panic into an error so a broken
// handler cannot take down the publisher.
func (d *Dispatcher) invoke(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

// PublishAll delivers a batch of events in order.
func (d *Dispatcher) PublishAll(ctx context.Context, events []shared.DomainEvent) {
	for _, event := range events {
		d.Publish(ctx, event)
	}
}
