package commands

import (
	"context"
)

// CancelOrderCommandHandler moves an order to CANCELLED. An already assigned
// courier keeps its record on the order but is informed along with the other
// parties.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command. Rejects the transition when the
// order already reached DELIVERED or CANCELLED. The returned notifications
// inform the customer, the operators and the assigned courier if any.
func (h *CancelOrderCommandHandler) Handle(
	ctx context.Context, cmd CancelOrderCommand,
) ([]Notification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	cancelled, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = cancelled.Cancel(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, cancelled); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"orderId": int64(cancelled.ID()),
		"status":  cancelled.Status().String(),
	}

	notifications := []Notification{
		{
			Target:   TargetCustomer,
			Customer: cancelled.CustomerID(),
			Event:    EventOrderCancelled,
			Payload:  payload,
		},
		{
			Target:     TargetOperators,
			Restaurant: cancelled.RestaurantID(),
			Event:      EventOrderCancelled,
			Payload:    payload,
		},
	}

	if cancelled.Courier() != nil {
		notifications = append(notifications, Notification{
			Target:  TargetCourier,
			Courier: *cancelled.Courier(),
			Event:   EventOrderCancelled,
			Payload: payload,
		})
	}

	return notifications, nil
}
