package commands

import (
	"context"
	"errors"
)

// ErrCourierIsNotAssigned reports that the reporting courier is not the one
// assigned to the order.
var ErrCourierIsNotAssigned = errors.New("courier is not assigned to this order")

// MarkPickedUpCommandHandler moves an assigned order to PICKED_UP once the
// assigned courier reports collecting it.
type MarkPickedUpCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewMarkPickedUpCommandHandler creates a handler for the pickup transition.
func NewMarkPickedUpCommandHandler(uowFactory OrderUoWFactory) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the pickup command. Only the assigned courier may report
// the pickup, and only from DRIVER_ASSIGNED.
func (h *MarkPickedUpCommandHandler) Handle(
	ctx context.Context, cmd MarkPickedUpCommand,
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
	picked, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if picked.Courier() == nil || *picked.Courier() != cmd.CourierID() {
		return nil, ErrCourierIsNotAssigned
	}

	if err = picked.MarkPickedUp(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, picked); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifications := []Notification{
		{
			Target:   TargetCustomer,
			Customer: picked.CustomerID(),
			Event:    EventOrderPickedUp,
			Payload: map[string]any{
				"orderId": int64(picked.ID()),
				"status":  picked.Status().String(),
			},
		},
		{
			Target:     TargetOperators,
			Restaurant: picked.RestaurantID(),
			Event:      EventOrderPickedUpAdmin,
			Payload: map[string]any{
				"orderId": int64(picked.ID()),
				"status":  picked.Status().String(),
			},
		},
	}

	return notifications, nil
}
