package commands

import (
	"context"
)

// MarkDeliveredCommandHandler moves a picked up order to DELIVERED, the
// terminal success state. The caller frees the courier for new offers once
// the transition commits.
type MarkDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewMarkDeliveredCommandHandler creates a handler for the delivery
// transition.
func NewMarkDeliveredCommandHandler(uowFactory OrderUoWFactory) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delivery command. Only the assigned courier may
// report the delivery, and only from PICKED_UP.
func (h *MarkDeliveredCommandHandler) Handle(
	ctx context.Context, cmd MarkDeliveredCommand,
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
	delivered, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if delivered.Courier() == nil || *delivered.Courier() != cmd.CourierID() {
		return nil, ErrCourierIsNotAssigned
	}

	if err = delivered.MarkDelivered(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, delivered); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifications := []Notification{
		{
			Target:   TargetCustomer,
			Customer: delivered.CustomerID(),
			Event:    EventOrderDelivered,
			Payload: map[string]any{
				"orderId": int64(delivered.ID()),
				"status":  delivered.Status().String(),
			},
		},
		{
			Target:     TargetOperators,
			Restaurant: delivered.RestaurantID(),
			Event:      EventOrderCompleted,
			Payload: map[string]any{
				"orderId": int64(delivered.ID()),
				"status":  delivered.Status().String(),
			},
		},
	}

	return notifications, nil
}
