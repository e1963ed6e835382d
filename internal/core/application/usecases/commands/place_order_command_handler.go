package commands

import (
	"context"

	"courierhub/internal/core/domain/model/order"
)

// PlaceOrderCommandHandler handles the business logic for placing orders.
// Persists the new order in PENDING status and announces it to the
// restaurant's operators.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for transactional persistence.
func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order placement command. The order and its items are
// stored atomically and the store-assigned identifier is available on the
// returned aggregate. The returned notifications announce the order to the
// restaurant operators.
func (h *PlaceOrderCommandHandler) Handle(
	ctx context.Context, cmd PlaceOrderCommand,
) (*order.Order, []Notification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	placed, err := order.NewOrder(
		cmd.RestaurantID(),
		cmd.CustomerID(),
		cmd.Items(),
		cmd.TotalPrice(),
		cmd.DeliveryAddress(),
		cmd.DeliveryPoint(),
	)
	if err != nil {
		return nil, nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	notifications := []Notification{
		{
			Target:     TargetOperators,
			Restaurant: placed.RestaurantID(),
			Event:      EventNewOrder,
			Payload: map[string]any{
				"orderId":         int64(placed.ID()),
				"clientId":        int64(placed.CustomerID()),
				"restaurantId":    int64(placed.RestaurantID()),
				"items":           itemsPayload(placed.Items()),
				"totalPrice":      placed.TotalPrice(),
				"deliveryAddress": placed.DeliveryAddress(),
				"status":          placed.Status().String(),
			},
		},
	}

	return placed, notifications, nil
}
