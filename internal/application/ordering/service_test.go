package ordering

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/domain/ordering"
	"github.com/modushop/v2/internal/domain/shared"
	gormpersistence "github.com/modushop/v2/internal/infrastructure/persistence/gorm"
	"github.com/modushop/v2/internal/ports/inbound"
	"github.com/modushop/v2/internal/ports/outbound"
	apperrors "github.com/modushop/v2/pkg/errors"
)

type fakeOrderRepository struct {
	outbound.OrderRepository

	orders map[uuid.UUID]*ordering.Order
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: map[uuid.UUID]*ordering.Order{}}
}

func (r *fakeOrderRepository) Create(_ context.Context, order *ordering.Order) error {
	r.orders[order.ID()] = order
	return nil
}

func (r *fakeOrderRepository) Update(_ context.Context, order *ordering.Order) error {
	r.orders[order.ID()] = order
	return nil
}

func (r *fakeOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, ordering.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrderRepository) FindByOrderNumber(_ context.Context, orderNumber string) (*ordering.Order, error) {
	for _, order := range r.orders {
		if order.OrderNumber() == orderNumber {
			return order, nil
		}
	}
	return nil, ordering.ErrOrderNotFound
}

func (r *fakeOrderRepository) FindByCustomerID(_ context.Context, customerID uuid.UUID, offset, limit int) ([]*ordering.Order, int, error) {
	var out []*ordering.Order
	for _, order := range r.orders {
		if order.CustomerID() == customerID {
			out = append(out, order)
		}
	}
	return out, len(out), nil
}

type recordingDispatcher struct {
	events []shared.DomainEvent
}

func (d *recordingDispatcher) Register(string, shared.EventHandler) {}

func (d *recordingDispatcher) Publish(_ context.Context, event shared.DomainEvent) {
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) names() []string {
	out := make([]string, len(d.events))
	for i, e := range d.events {
		out[i] = e.EventName()
	}
	return out
}

func sequentialRunner(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type OrderingServiceTestSuite struct {
	suite.Suite

	repo       *fakeOrderRepository
	dispatcher *recordingDispatcher
	service    inbound.OrderingService
}

func TestOrderingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderingServiceTestSuite))
}

func (s *OrderingServiceTestSuite) SetupTest() {
	s.repo = newFakeOrderRepository()
	s.dispatcher = &recordingDispatcher{}
	interceptor := gormpersistence.NewSaveInterceptor(s.dispatcher, zap.NewNop())
	factory := gormpersistence.NewUnitOfWorkFactory(interceptor, sequentialRunner)
	s.service = NewOrderingService(s.repo, factory, validator.New(), zap.NewNop())
}

func (s *OrderingServiceTestSuite) placeOrder() *inbound.OrderDTO {
	dto, err := s.service.PlaceOrder(context.Background(), inbound.PlaceOrderCommand{
		CustomerID: uuid.New(),
		Items: []inbound.PlaceOrderItemInput{
			{ProductID: uuid.New(), ProductName: "Double Double", UnitPrice: decimal.NewFromFloat(2.10), Quantity: 2},
			{ProductID: uuid.New(), ProductName: "Boston Cream", UnitPrice: decimal.NewFromFloat(1.99), Quantity: 1},
		},
	})
	s.Require().NoError(err)
	return dto
}

func (s *OrderingServiceTestSuite) TestPlaceOrder() {
	dto := s.placeOrder()

	s.True(dto.Total.Equal(decimal.NewFromFloat(6.19)))
	s.Equal(3, dto.ItemCount)
	s.Equal(string(ordering.StatusPending), dto.Status)
	s.Regexp(`^ORD-\d{8}-[0-9A-F]{8}$`, dto.OrderNumber)
	s.Equal([]string{ordering.EventOrderPlaced}, s.dispatcher.names())
}

func (s *OrderingServiceTestSuite) TestPlaceOrderRequiresItems() {
	_, err := s.service.PlaceOrder(context.Background(), inbound.PlaceOrderCommand{
		CustomerID: uuid.New(),
	})

	s.Require().Error(err)
	s.Equal(apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func (s *OrderingServiceTestSuite) TestConfirmAndShip() {
	dto := s.placeOrder()
	s.dispatcher.events = nil

	confirmed, err := s.service.ConfirmOrder(context.Background(), dto.ID)
	s.Require().NoError(err)
	s.Equal(string(ordering.StatusConfirmed), confirmed.Status)

	shipped, err := s.service.ShipOrder(context.Background(), dto.ID)
	s.Require().NoError(err)
	s.Equal(string(ordering.StatusShipped), shipped.Status)

	s.Equal([]string{ordering.EventOrderConfirmed, ordering.EventOrderShipped}, s.dispatcher.names())
}

func (s *OrderingServiceTestSuite) TestShipPendingOrderRejected() {
	dto := s.placeOrder()

	_, err := s.service.ShipOrder(context.Background(), dto.ID)

	s.Require().Error(err)
	s.Equal(apperrors.CodeInvalidOrder, apperrors.GetCode(err))
}

func (s *OrderingServiceTestSuite) TestCancelOrder() {
	dto := s.placeOrder()
	s.dispatcher.events = nil

	cancelled, err := s.service.CancelOrder(context.Background(), inbound.CancelOrderCommand{
		OrderID: dto.ID,
		Reason:  "customer changed their mind",
	})

	s.Require().NoError(err)
	s.Equal(string(ordering.StatusCancelled), cancelled.Status)
	s.Equal([]string{ordering.EventOrderCancelled}, s.dispatcher.names())
}

func (s *OrderingServiceTestSuite) TestCancelShippedOrderRejected() {
	dto := s.placeOrder()
	_, err := s.service.ConfirmOrder(context.Background(), dto.ID)
	s.Require().NoError(err)
	_, err = s.service.ShipOrder(context.Background(), dto.ID)
	s.Require().NoError(err)

	_, err = s.service.CancelOrder(context.Background(), inbound.CancelOrderCommand{
		OrderID: dto.ID,
		Reason:  "too late",
	})

	s.Require().Error(err)
	s.Equal(apperrors.CodeInvalidOrder, apperrors.GetCode(err))
}

func (s *OrderingServiceTestSuite) TestGetOrderByNumber() {
	dto := s.placeOrder()

	found, err := s.service.GetOrderByNumber(context.Background(), dto.OrderNumber)

	s.Require().NoError(err)
	s.Equal(dto.ID, found.ID)
}

func (s *OrderingServiceTestSuite) TestGetOrderNotFound() {
	_, err := s.service.GetOrderByID(context.Background(), uuid.New())

	s.Require().Error(err)
	s.Equal(apperrors.CodeOrderNotFound, apperrors.GetCode(err))
}

func (s *OrderingServiceTestSuite) TestGetOrdersByCustomer() {
	dto := s.placeOrder()

	list, err := s.service.GetOrdersByCustomer(context.Background(), dto.CustomerID, inbound.PaginationParams{Page: 1, PageSize: 10})

	s.Require().NoError(err)
	s.Equal(1, list.Total)
	s.Len(list.Orders, 1)
}

func TestCheckoutHandlerPlacesOrder(t *testing.T) {
	repo := newFakeOrderRepository()
	dispatcher := &recordingDispatcher{}
	interceptor := gormpersistence.NewSaveInterceptor(dispatcher, zap.NewNop())
	factory := gormpersistence.NewUnitOfWorkFactory(interceptor, sequentialRunner)
	service := NewOrderingService(repo, factory, validator.New(), zap.NewNop())
	handler := NewCheckoutHandler(service, zap.NewNop())

	cart := basket.NewShoppingCart(uuid.New())
	productID := uuid.New()
	if err := cart.AddItem(productID, "Double Double", decimal.NewFromFloat(2.10), 2, decimal.NewFromFloat(2.10)); err != nil {
		t.Fatal(err)
	}
	if err := cart.Checkout(); err != nil {
		t.Fatal(err)
	}

	var checkedOut basket.ShoppingCartCheckedOutEvent
	found := false
	for _, event := range cart.DrainEvents() {
		if e, ok := event.(basket.ShoppingCartCheckedOutEvent); ok {
			checkedOut = e
			found = true
		}
	}
	if !found {
		t.Fatal("checkout raised no checked-out event")
	}

	if err := handler.Handle(context.Background(), checkedOut); err != nil {
		t.Fatal(err)
	}

	if len(repo.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(repo.orders))
	}
	for _, order := range repo.orders {
		if !order.Total().Equal(decimal.NewFromFloat(4.20)) {
			t.Fatalf("order total = %s, want 4.20", order.Total())
		}
		if got := order.Items()[0].ProductID(); got != productID {
			t.Fatalf("product id = %s, want %s", got, productID)
		}
	}
}

func TestCheckoutHandlerRejectsWrongEventType(t *testing.T) {
	handler := NewCheckoutHandler(nil, zap.NewNop())

	err := handler.Handle(context.Background(), basket.ShoppingCartCreatedEvent{
		BaseEvent:  shared.NewBaseEvent(),
		CartID:     uuid.New(),
		CustomerID: uuid.New(),
	})

	if err == nil {
		t.Fatal("expected error for wrong event type")
	}
}
