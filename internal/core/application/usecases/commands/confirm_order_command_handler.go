package commands

import (
	"context"
)

// ConfirmOrderCommandHandler moves a pending order to CONFIRMED and
// records the preparation estimate.
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(uowFactory OrderUoWFactory) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the confirmation command. Rejects the transition if the
// order is not PENDING. The returned notification carries the estimate to
// the customer.
func (h *ConfirmOrderCommandHandler) Handle(
	ctx context.Context, cmd ConfirmOrderCommand,
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
	confirmed, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = confirmed.Confirm(cmd.EstimatedMinutes()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, confirmed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifications := []Notification{
		{
			Target:   TargetCustomer,
			Customer: confirmed.CustomerID(),
			Event:    EventOrderConfirmed,
			Payload: map[string]any{
				"orderId":       int64(confirmed.ID()),
				"estimatedTime": cmd.EstimatedMinutes(),
				"status":        confirmed.Status().String(),
			},
		},
	}

	return notifications, nil
}
