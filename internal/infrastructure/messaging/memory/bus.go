// Package memory implements the message bus in process. It backs tests and
// single-binary deployments where the modules share one process anyway.
package memory

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/modushop/v2/internal/ports/outbound"
)

// Bus implements outbound.MessageBus with synchronous in-process delivery.
// Like the Redis bus it promises at-least-once semantics to consumers, so
// publishing the same message twice delivers it twice.
type Bus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]outbound.MessageHandler
	closed   bool
}

// NewBus creates an empty in-memory bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		logger:   logger.Named("memory-bus"),
		handlers: make(map[string][]outbound.MessageHandler),
	}
}

// Publish delivers the message synchronously to every subscriber. Handler
// errors are logged, matching the Redis bus behavior.
func (b *Bus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("message bus is closed")
	}
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, message); err != nil {
			b.logger.Error("message handler failed",
				zap.String("topic", topic),
				zap.String("message_id", message.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Subscribe registers a handler for the topic.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("message bus is closed")
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

// Close drops all subscriptions.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[string][]outbound.MessageHandler)
	return nil
}
