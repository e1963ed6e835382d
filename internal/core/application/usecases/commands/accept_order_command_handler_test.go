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

func TestAcceptOrderCommandHandler_Handle_Won(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.OrderID(42)
	courierID := kernel.CourierID(5)
	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, "Kai")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("AssignCourier", mock.Anything, orderID, courierID, "Kai").Return(true, nil).Once(),
		repo.On("Get", mock.Anything, orderID).Return(storedOrder(orderID, order.DriverAssigned), nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	assigned, notifications, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, assigned)
	assert.Equal(t, order.DriverAssigned, assigned.Status())

	require.Len(t, notifications, 2)
	assert.Equal(t, commands.TargetCustomer, notifications[0].Target)
	assert.Equal(t, commands.EventDriverAssigned, notifications[0].Event)
	assert.Equal(t, "Kai", notifications[0].Payload["driverName"])
	assert.Equal(t, commands.TargetOperators, notifications[1].Target)
	assert.Equal(t, kernel.RestaurantID(1), notifications[1].Restaurant)
	assert.Equal(t, commands.EventDriverAssignedAdmin, notifications[1].Event)

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.OrderID(42)
	courierID := kernel.CourierID(9)
	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, "Noor")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("AssignCourier", mock.Anything, orderID, courierID, "Noor").Return(false, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	assigned, notifications, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrOrderAlreadyTaken)
	assert.Nil(t, assigned)
	assert.Empty(t, notifications)

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_AssignError(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.OrderID(42)
	cmd, err := commands.NewAcceptOrderCommand(orderID, kernel.CourierID(5), "Kai")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("AssignCourier", mock.Anything, orderID, kernel.CourierID(5), "Kai").
			Return(false, errors.New("store error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	_, _, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	require.NotErrorIs(t, err, commands.ErrOrderAlreadyTaken)
}

func TestNewAcceptOrderCommand_Validation(t *testing.T) {
	_, err := commands.NewAcceptOrderCommand(kernel.OrderID(0), kernel.CourierID(5), "Kai")
	require.Error(t, err)

	_, err = commands.NewAcceptOrderCommand(kernel.OrderID(42), kernel.CourierID(5), "")
	require.ErrorIs(t, err, commands.ErrCourierNameIsRequired)
}
