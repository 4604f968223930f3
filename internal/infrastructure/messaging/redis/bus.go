// Package redis implements the message bus on Redis pub/sub. Delivery is
// at-least-once from the consumer's point of view: Redis itself delivers
// fire-and-forget, and redeliveries happen on reconnect, so handlers must be
// idempotent.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/ports/outbound"
)

// envelope is the JSON wire format on the Redis channel.
type envelope struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Bus implements outbound.MessageBus on Redis pub/sub.
type Bus struct {
	client redis.UniversalClient
	logger *zap.Logger

	mu     sync.Mutex
	subs   []*redis.PubSub
	wg     sync.WaitGroup
	closed bool
}

// NewBus creates a Redis-backed message bus.
func NewBus(client redis.UniversalClient, logger *zap.Logger) *Bus {
	return &Bus{
		client: client,
		logger: logger.Named("redis-bus"),
	}
}

// Publish sends one message to the topic channel.
func (b *Bus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	data, err := json.Marshal(envelope{
		ID:        message.ID,
		Type:      message.Type,
		Payload:   message.Payload,
		Metadata:  message.Metadata,
		Timestamp: message.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	if err := b.client.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes the topic on a background goroutine until Close. Handler
// errors are logged and the subscription keeps running.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("message bus is closed")
	}

	sub := b.client.Subscribe(ctx, topic)
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	b.subs = append(b.subs, sub)

	b.wg.Add(1)
	go b.consume(context.WithoutCancel(ctx), topic, sub, handler)
	return nil
}

func (b *Bus) consume(ctx context.Context, topic string, sub *redis.PubSub, handler outbound.MessageHandler) {
	defer b.wg.Done()

	for msg := range sub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			b.logger.Error("dropping malformed message",
				zap.String("topic", topic),
				zap.Error(err),
			)
			continue
		}

		message := outbound.Message{
			ID:        env.ID,
			Type:      env.Type,
			Payload:   env.Payload,
			Metadata:  env.Metadata,
			Timestamp: env.Timestamp,
		}
		if err := handler(ctx, message); err != nil {
			b.logger.Error("message handler failed",
				zap.String("topic", topic),
				zap.String("message_id", message.ID),
				zap.Error(err),
			)
		}
	}
}

// Close stops all subscriptions and waits for in-flight handlers.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := b.subs
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	b.wg.Wait()
	return nil
}
