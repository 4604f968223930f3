package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/ports/outbound"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx := context.Background()

	var received []string
	require.NoError(t, bus.Subscribe(ctx, "orders", func(ctx context.Context, m outbound.Message) error {
		received = append(received, m.ID)
		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx, "orders", func(ctx context.Context, m outbound.Message) error {
		received = append(received, m.ID+"-second")
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "orders", outbound.Message{ID: "m1"}))
	assert.Equal(t, []string{"m1", "m1-second"}, received)
}

func TestPublishToOtherTopicIsNotDelivered(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx := context.Background()

	called := false
	require.NoError(t, bus.Subscribe(ctx, "orders", func(ctx context.Context, m outbound.Message) error {
		called = true
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "payments", outbound.Message{ID: "m1"}))
	assert.False(t, called)
}

func TestDuplicatePublishDeliversTwice(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx := context.Background()

	count := 0
	require.NoError(t, bus.Subscribe(ctx, "orders", func(ctx context.Context, m outbound.Message) error {
		count++
		return nil
	}))

	message := outbound.Message{ID: "m1"}
	require.NoError(t, bus.Publish(ctx, "orders", message))
	require.NoError(t, bus.Publish(ctx, "orders", message))
	assert.Equal(t, 2, count, "at-least-once: duplicates reach the handler")
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx := context.Background()

	second := false
	require.NoError(t, bus.Subscribe(ctx, "orders", func(ctx context.Context, m outbound.Message) error {
		return errors.New("boom")
	}))
	require.NoError(t, bus.Subscribe(ctx, "orders", func(ctx context.Context, m outbound.Message) error {
		second = true
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "orders", outbound.Message{ID: "m1"}))
	assert.True(t, second)
}

func TestClosedBusRejectsOperations(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx := context.Background()
	require.NoError(t, bus.Close())

	assert.Error(t, bus.Publish(ctx, "orders", outbound.Message{ID: "m1"}))
	assert.Error(t, bus.Subscribe(ctx, "orders", func(ctx context.Context, m outbound.Message) error { return nil }))
}
