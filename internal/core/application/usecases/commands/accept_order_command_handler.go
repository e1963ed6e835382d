package commands

import (
	"context"
	"errors"

	"courierhub/internal/core/domain/model/order"
)

// ErrOrderAlreadyTaken reports that another courier won the acceptance race
// or the order already left the READY state.
var ErrOrderAlreadyTaken = errors.New("order already taken")

// AcceptOrderCommandHandler resolves the courier acceptance race. The
// assignment is a single conditional store update, so when two couriers
// accept the same order concurrently exactly one of them wins regardless of
// which coordinator goroutine runs first.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAcceptOrderCommandHandler creates a handler for courier acceptance.
func NewAcceptOrderCommandHandler(uowFactory OrderUoWFactory) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the acceptance command. Returns ErrOrderAlreadyTaken when
// the courier lost the race. On success the returned aggregate reflects the
// assignment and the notifications inform the customer and the operators.
func (h *AcceptOrderCommandHandler) Handle(
	ctx context.Context, cmd AcceptOrderCommand,
) (*order.Order, []Notification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	won, err := orderRepo.AssignCourier(ctx, cmd.OrderID(), cmd.CourierID(), cmd.CourierName())
	if err != nil {
		return nil, nil, err
	}

	if !won {
		return nil, nil, ErrOrderAlreadyTaken
	}

	assigned, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	notifications := []Notification{
		{
			Target:   TargetCustomer,
			Customer: assigned.CustomerID(),
			Event:    EventDriverAssigned,
			Payload: map[string]any{
				"orderId":    int64(assigned.ID()),
				"driverName": assigned.CourierName(),
				"status":     assigned.Status().String(),
			},
		},
		{
			Target:     TargetOperators,
			Restaurant: assigned.RestaurantID(),
			Event:      EventDriverAssignedAdmin,
			Payload: map[string]any{
				"orderId":    int64(assigned.ID()),
				"driverName": assigned.CourierName(),
				"status":     assigned.Status().String(),
			},
		},
	}

	return assigned, notifications, nil
}
