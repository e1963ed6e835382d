package commands_test

import (
	"context"
	"time"

	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
	"courierhub/internal/core/domain/model/restaurant"
	"courierhub/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AssignCourier(
	ctx context.Context, id kernel.OrderID, courierID kernel.CourierID, courierName string,
) (bool, error) {
	args := m.Called(ctx, id, courierID, courierName)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByCustomer(
	ctx context.Context, customerID kernel.CustomerID,
) (*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByCourier(
	ctx context.Context, courierID kernel.CourierID,
) (*order.Order, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllReadyUnassigned(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Get(
	ctx context.Context, id kernel.RestaurantID,
) (restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(restaurant.Restaurant), args.Error(1)
}

func testItems() []order.LineItem {
	item, _ := order.NewLineItem(kernel.ProductID(7), "Margherita", 2, 9.50)
	return []order.LineItem{item}
}

func testPoint() kernel.GeoPoint {
	point, _ := kernel.NewGeoPoint(52.52, 13.405)
	return point
}

// storedOrder rebuilds a persisted order in the given status, with a courier
// assignment when the status requires one.
func storedOrder(id kernel.OrderID, status order.Status) *order.Order {
	var courierID *kernel.CourierID
	courierName := ""
	switch status {
	case order.DriverAssigned, order.PickedUp, order.Delivered:
		cid := kernel.CourierID(5)
		courierID = &cid
		courierName = "Kai"
	}

	stored, err := order.RestoreOrder(
		id,
		kernel.RestaurantID(1),
		kernel.CustomerID(2),
		testItems(),
		19.0,
		"12 Elm Street",
		testPoint(),
		status,
		courierID,
		courierName,
		nil,
		time.Now().UTC(),
	)
	if err != nil {
		panic(err)
	}
	return stored
}
