package commands_test

import (
	"errors"
	"testing"

	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placeCommand(t *testing.T) commands.PlaceOrderCommand {
	t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(
		kernel.RestaurantID(1), kernel.CustomerID(2), testItems(), 19.0, "12 Elm Street", testPoint(),
	)
	require.NoError(t, err)
	return cmd
}

func TestPlaceOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := placeCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				added := args.Get(1).(*order.Order)
				require.NoError(t, added.AssignID(kernel.OrderID(42)))
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlaceOrderCommandHandler(factory)
	placed, notifications, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, placed)
	assert.Equal(t, kernel.OrderID(42), placed.ID())
	assert.Equal(t, order.Pending, placed.Status())

	require.Len(t, notifications, 1)
	assert.Equal(t, commands.TargetOperators, notifications[0].Target)
	assert.Equal(t, kernel.RestaurantID(1), notifications[0].Restaurant)
	assert.Equal(t, commands.EventNewOrder, notifications[0].Event)
	assert.Equal(t, int64(42), notifications[0].Payload["orderId"])
	assert.Equal(t, "PENDING", notifications[0].Payload["status"])

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.PlaceOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewPlaceOrderCommandHandler(factory)
	_, _, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestPlaceOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := placeCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlaceOrderCommandHandler(factory)
	_, _, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestNewPlaceOrderCommand_Validation(t *testing.T) {
	_, err := commands.NewPlaceOrderCommand(
		kernel.RestaurantID(0), kernel.CustomerID(2), testItems(), 19.0, "12 Elm Street", testPoint(),
	)
	require.Error(t, err)

	_, err = commands.NewPlaceOrderCommand(
		kernel.RestaurantID(1), kernel.CustomerID(2), nil, 19.0, "12 Elm Street", testPoint(),
	)
	require.ErrorIs(t, err, commands.ErrOrderItemsAreRequired)

	_, err = commands.NewPlaceOrderCommand(
		kernel.RestaurantID(1), kernel.CustomerID(2), testItems(), -1, "12 Elm Street", testPoint(),
	)
	require.ErrorIs(t, err, commands.ErrTotalPriceIsInvalid)

	_, err = commands.NewPlaceOrderCommand(
		kernel.RestaurantID(1), kernel.CustomerID(2), testItems(), 19.0, "", testPoint(),
	)
	require.ErrorIs(t, err, commands.ErrDeliveryAddressRequired)
}
