package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/domain/shared"
	"github.com/modushop/v2/internal/ports/outbound"
)

// recordingDispatcher captures published events in order.
type recordingDispatcher struct {
	events []shared.DomainEvent
}

func (d *recordingDispatcher) Register(eventName string, handler shared.EventHandler) {}

func (d *recordingDispatcher) Publish(ctx context.Context, event shared.DomainEvent) {
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) names() []string {
	names := make([]string, len(d.events))
	for i, event := range d.events {
		names[i] = event.EventName()
	}
	return names
}

// sequentialRunner runs the ops without a database.
func sequentialRunner(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// failingRunner simulates a commit failure after the ops ran.
func failingRunner(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return errors.New("constraint violation")
}

// UnitOfWorkTestSuite provides a test suite for the save protocol
type UnitOfWorkTestSuite struct {
	suite.Suite
	dispatcher *recordingDispatcher
	factory    outbound.UnitOfWorkFactory
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	s.dispatcher = &recordingDispatcher{}
	interceptor := NewSaveInterceptor(s.dispatcher, zap.NewNop())
	s.factory = NewUnitOfWorkFactory(interceptor, sequentialRunner)
}

func (s *UnitOfWorkTestSuite) newProduct() *catalog.Product {
	product, err := catalog.NewProduct(
		"Espresso Beans", "Dark roast", decimal.RequireFromString("14.90"),
		"beans.png", []string{"coffee"}, 10)
	s.Require().NoError(err)
	return product
}

func (s *UnitOfWorkTestSuite) TestEventsDispatchedOnlyAfterCommit() {
	product := s.newProduct()
	uow := s.factory(outbound.DispatchAndWait)

	persisted := false
	uow.MarkNew(product, func(ctx context.Context) error {
		persisted = true
		// Nothing has been dispatched while the transaction is open.
		assert.Empty(s.T(), s.dispatcher.events)
		return nil
	})

	require.NoError(s.T(), uow.Commit(context.Background()))
	assert.True(s.T(), persisted)
	assert.Equal(s.T(), []string{catalog.EventProductCreated}, s.dispatcher.names())
	assert.False(s.T(), product.HasPendingEvents(), "buffer is drained by the commit")
}

func (s *UnitOfWorkTestSuite) TestFailedCommitDiscardsEvents() {
	product := s.newProduct()
	interceptor := NewSaveInterceptor(s.dispatcher, zap.NewNop())
	uow := NewUnitOfWorkFactory(interceptor, failingRunner)(outbound.DispatchAndWait)

	uow.MarkNew(product, func(ctx context.Context) error { return nil })

	err := uow.Commit(context.Background())
	require.Error(s.T(), err)
	assert.Empty(s.T(), s.dispatcher.events, "no events escape a failed commit")
	assert.False(s.T(), product.HasPendingEvents(), "drained events are lost, not requeued")
}

func (s *UnitOfWorkTestSuite) TestPersistErrorAbortsRemainingOps() {
	first := s.newProduct()
	second := s.newProduct()
	uow := s.factory(outbound.DispatchAndWait)

	uow.MarkNew(first, func(ctx context.Context) error { return errors.New("insert failed") })
	secondRan := false
	uow.MarkNew(second, func(ctx context.Context) error {
		secondRan = true
		return nil
	})

	require.Error(s.T(), uow.Commit(context.Background()))
	assert.False(s.T(), secondRan)
	assert.Empty(s.T(), s.dispatcher.events)
}

func (s *UnitOfWorkTestSuite) TestAuditStamping() {
	product := s.newProduct()
	uow := s.factory(outbound.DispatchAndWait)
	uow.MarkNew(product, func(ctx context.Context) error { return nil })

	ctx := outbound.WithActor(context.Background(), "catalog-admin")
	require.NoError(s.T(), uow.Commit(ctx))

	assert.Equal(s.T(), "catalog-admin", product.CreatedBy())
	assert.Equal(s.T(), "catalog-admin", product.LastModifiedBy())
	assert.False(s.T(), product.CreatedAt().IsZero())
}

func (s *UnitOfWorkTestSuite) TestActorDefaultsToSystem() {
	product := s.newProduct()
	uow := s.factory(outbound.DispatchAndWait)
	uow.MarkDirty(product, func(ctx context.Context) error { return nil })

	require.NoError(s.T(), uow.Commit(context.Background()))
	assert.Equal(s.T(), "system", product.LastModifiedBy())
}

func (s *UnitOfWorkTestSuite) TestSoftDeletableRemovalBecomesUpdate() {
	product := s.newProduct()
	product.DrainEvents()
	uow := s.factory(outbound.DispatchAndWait)

	updated, deleted := false, false
	uow.MarkRemoved(product,
		func(ctx context.Context) error { updated = true; return nil },
		func(ctx context.Context) error { deleted = true; return nil },
	)

	require.NoError(s.T(), uow.Commit(context.Background()))
	assert.True(s.T(), updated, "soft-deletable aggregates are updated, not deleted")
	assert.False(s.T(), deleted)
	assert.True(s.T(), product.IsDeleted())
	assert.NotNil(s.T(), product.DeletedAt())
}

func (s *UnitOfWorkTestSuite) TestHardRemovalForPlainAggregates() {
	cart := basket.NewShoppingCart(uuid.New())
	cart.DrainEvents()
	uow := s.factory(outbound.DispatchAndWait)

	updated, deleted := false, false
	uow.MarkRemoved(cart,
		func(ctx context.Context) error { updated = true; return nil },
		func(ctx context.Context) error { deleted = true; return nil },
	)

	require.NoError(s.T(), uow.Commit(context.Background()))
	assert.True(s.T(), deleted)
	assert.False(s.T(), updated)
}

func (s *UnitOfWorkTestSuite) TestEventsKeepChangeOrderAcrossAggregates() {
	product := s.newProduct()
	cart := basket.NewShoppingCart(uuid.New())
	uow := s.factory(outbound.DispatchAndWait)

	uow.MarkNew(product, func(ctx context.Context) error { return nil })
	uow.MarkNew(cart, func(ctx context.Context) error { return nil })

	require.NoError(s.T(), uow.Commit(context.Background()))
	assert.Equal(s.T(), []string{catalog.EventProductCreated, basket.EventCartCreated}, s.dispatcher.names())
}

func (s *UnitOfWorkTestSuite) TestEmptyCommitIsNoOp() {
	uow := s.factory(outbound.DispatchAndWait)
	require.NoError(s.T(), uow.Commit(context.Background()))
	assert.Empty(s.T(), s.dispatcher.events)
}

func (s *UnitOfWorkTestSuite) TestCommitIsSingleUse() {
	uow := s.factory(outbound.DispatchAndWait)
	require.NoError(s.T(), uow.Commit(context.Background()))
	assert.Error(s.T(), uow.Commit(context.Background()))
}

func TestUnitOfWorkTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}

func TestActorContext(t *testing.T) {
	assert.Equal(t, "system", outbound.ActorFromContext(context.Background()))
	ctx := outbound.WithActor(context.Background(), "checkout-worker")
	assert.Equal(t, "checkout-worker", outbound.ActorFromContext(ctx))
}
