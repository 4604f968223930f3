package ordering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// OrderTestSuite provides a test suite for the Order aggregate
type OrderTestSuite struct {
	suite.Suite
	customerID uuid.UUID
}

func (s *OrderTestSuite) SetupSuite() {
	s.customerID = uuid.New()
}

func (s *OrderTestSuite) newItems() []*OrderItem {
	a, err := NewOrderItem(uuid.New(), "Espresso Beans", decimal.RequireFromString("12.50"), 2)
	s.Require().NoError(err)
	b, err := NewOrderItem(uuid.New(), "Moka Pot", decimal.RequireFromString("29.90"), 1)
	s.Require().NoError(err)
	return []*OrderItem{a, b}
}

func (s *OrderTestSuite) newPendingOrder() *Order {
	order, err := NewOrder(s.customerID, "ORD-1001", s.newItems())
	s.Require().NoError(err)
	order.DrainEvents()
	return order
}

func (s *OrderTestSuite) TestNewOrder() {
	s.Run("places order with placed event", func() {
		order, err := NewOrder(s.customerID, "ORD-1001", s.newItems())
		require.NoError(s.T(), err)

		assert.Equal(s.T(), StatusPending, order.Status())
		assert.Equal(s.T(), "ORD-1001", order.OrderNumber())
		assert.Equal(s.T(), 3, order.ItemCount())
		assert.True(s.T(), order.Total().Equal(decimal.RequireFromString("54.90")))

		events := order.DrainEvents()
		require.Len(s.T(), events, 1)
		placed, ok := events[0].(OrderPlacedEvent)
		require.True(s.T(), ok)
		assert.Equal(s.T(), order.ID(), placed.OrderID)
		assert.True(s.T(), placed.Total.Equal(decimal.RequireFromString("54.90")))
		assert.Equal(s.T(), 3, placed.ItemCount)
	})

	s.Run("rejects empty order number", func() {
		_, err := NewOrder(s.customerID, "   ", s.newItems())
		assert.ErrorIs(s.T(), err, ErrEmptyOrderNumber)
	})

	s.Run("rejects empty item list", func() {
		_, err := NewOrder(s.customerID, "ORD-1002", nil)
		assert.ErrorIs(s.T(), err, ErrNoOrderItems)
	})
}

func (s *OrderTestSuite) TestNewOrderItem() {
	tests := []struct {
		name      string
		itemName  string
		unitPrice decimal.Decimal
		quantity  int
		wantErr   error
	}{
		{"empty product name", "  ", decimal.NewFromInt(10), 1, ErrEmptyProductName},
		{"negative unit price", "Mug", decimal.NewFromInt(-1), 1, ErrNegativeUnitPrice},
		{"zero quantity", "Mug", decimal.NewFromInt(10), 0, ErrInvalidQuantity},
		{"negative quantity", "Mug", decimal.NewFromInt(10), -2, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := NewOrderItem(uuid.New(), tt.itemName, tt.unitPrice, tt.quantity)
			assert.ErrorIs(s.T(), err, tt.wantErr)
		})
	}
}

func (s *OrderTestSuite) TestLifecycle() {
	s.Run("confirm then ship", func() {
		order := s.newPendingOrder()

		require.NoError(s.T(), order.Confirm())
		assert.Equal(s.T(), StatusConfirmed, order.Status())

		require.NoError(s.T(), order.Ship())
		assert.Equal(s.T(), StatusShipped, order.Status())

		events := order.DrainEvents()
		require.Len(s.T(), events, 2)
		assert.Equal(s.T(), EventOrderConfirmed, events[0].EventName())
		assert.Equal(s.T(), EventOrderShipped, events[1].EventName())
	})

	s.Run("cannot ship a pending order", func() {
		order := s.newPendingOrder()
		assert.ErrorIs(s.T(), order.Ship(), ErrOrderNotConfirmed)
		assert.False(s.T(), order.HasPendingEvents())
	})

	s.Run("cannot confirm twice", func() {
		order := s.newPendingOrder()
		require.NoError(s.T(), order.Confirm())
		assert.ErrorIs(s.T(), order.Confirm(), ErrOrderNotPending)
	})

	s.Run("cancel pending order with reason", func() {
		order := s.newPendingOrder()
		require.NoError(s.T(), order.Cancel("customer request"))
		assert.Equal(s.T(), StatusCancelled, order.Status())

		events := order.DrainEvents()
		require.Len(s.T(), events, 1)
		cancelled, ok := events[0].(OrderCancelledEvent)
		require.True(s.T(), ok)
		assert.Equal(s.T(), "customer request", cancelled.Reason)
	})

	s.Run("cancel confirmed order", func() {
		order := s.newPendingOrder()
		require.NoError(s.T(), order.Confirm())
		assert.NoError(s.T(), order.Cancel("out of stock"))
	})

	s.Run("final states cannot be cancelled", func() {
		order := s.newPendingOrder()
		require.NoError(s.T(), order.Confirm())
		require.NoError(s.T(), order.Ship())
		assert.ErrorIs(s.T(), order.Cancel("too late"), ErrOrderAlreadyFinal)

		cancelled := s.newPendingOrder()
		require.NoError(s.T(), cancelled.Cancel("first"))
		assert.ErrorIs(s.T(), cancelled.Cancel("again"), ErrOrderAlreadyFinal)
	})
}

func (s *OrderTestSuite) TestParseOrderStatus() {
	status, err := ParseOrderStatus("confirmed")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), StatusConfirmed, status)

	_, err = ParseOrderStatus("unknown")
	assert.ErrorIs(s.T(), err, ErrInvalidOrderStatus)
}

func (s *OrderTestSuite) TestRehydrate() {
	placedAt := time.Now().UTC()
	item := RehydrateOrderItem(uuid.New(), uuid.New(), "Grinder", decimal.NewFromInt(80), 1)
	order := RehydrateOrder(uuid.New(), s.customerID, "ORD-7", StatusConfirmed, []*OrderItem{item}, placedAt)

	assert.Equal(s.T(), StatusConfirmed, order.Status())
	assert.Equal(s.T(), placedAt, order.PlacedAt())
	assert.True(s.T(), order.Total().Equal(decimal.NewFromInt(80)))
	assert.False(s.T(), order.HasPendingEvents())
}

func TestOrderTestSuite(t *testing.T) {
	suite.Run(t, new(OrderTestSuite))
}
