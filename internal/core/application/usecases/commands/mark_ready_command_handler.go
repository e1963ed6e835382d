package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"courierhub/internal/core/domain/model/order"
	"courierhub/internal/core/domain/model/restaurant"
	"courierhub/internal/core/ports"
)

// MarkReadyCommandHandler moves a confirmed order to READY and produces the
// courier offer fan-out: every available connected courier gets the offer
// over its connection, and every courier with a registered push address gets
// the same offer as a push message.
type MarkReadyCommandHandler struct {
	uowFactory     OrderUoWFactory
	restaurantRepo ports.RestaurantRepository
	logger         *slog.Logger
}

// NewMarkReadyCommandHandler creates a handler for the ready transition.
// The restaurant repository supplies the pickup details embedded in the
// courier offer.
func NewMarkReadyCommandHandler(
	uowFactory OrderUoWFactory, restaurantRepo ports.RestaurantRepository, logger *slog.Logger,
) MarkReadyCommandHandler {
	return MarkReadyCommandHandler{
		uowFactory:     uowFactory,
		restaurantRepo: restaurantRepo,
		logger:         logger.With("component", "MarkReadyCommandHandler"),
	}
}

// Handle processes the ready command. Rejects the transition unless the
// order is PENDING or CONFIRMED. The returned notifications inform the
// customer and offer the order to couriers over both channels.
func (h *MarkReadyCommandHandler) Handle(
	ctx context.Context, cmd MarkReadyCommand,
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
	ready, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = ready.MarkReady(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, ready); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// The transition is committed at this point. A pickup lookup failure only
	// costs the courier offer, never the customer notice.
	pickup, err := h.restaurantRepo.Get(ctx, ready.RestaurantID())
	if err != nil {
		h.logger.ErrorContext(ctx, "pickup lookup failed, courier offer skipped",
			"orderId", int64(ready.ID()),
			"restaurantId", int64(ready.RestaurantID()),
			"error", err)
		return []Notification{customerReadyNotification(ready)}, nil
	}

	return readyNotifications(ready, pickup), nil
}

// readyNotifications builds the customer notice and the courier offer for a
// READY order.
func readyNotifications(ready *order.Order, pickup restaurant.Restaurant) []Notification {
	notifications := []Notification{customerReadyNotification(ready)}

	return append(notifications, OfferNotifications(ready, pickup)...)
}

func customerReadyNotification(ready *order.Order) Notification {
	return Notification{
		Target:   TargetCustomer,
		Customer: ready.CustomerID(),
		Event:    EventOrderReady,
		Payload: map[string]any{
			"orderId": int64(ready.ID()),
			"status":  ready.Status().String(),
		},
	}
}

// OfferNotifications builds the courier-facing offer pair for a READY order:
// the connection broadcast to available couriers and the matching push
// message. The re-offer job reuses it for orders still waiting on a courier.
func OfferNotifications(ready *order.Order, pickup restaurant.Restaurant) []Notification {
	offer := offerPayload(ready, pickup)

	return []Notification{
		{
			Target:  TargetAvailableCouriers,
			Event:   EventOrderAvailable,
			Payload: offer,
		},
		{
			Target:  TargetCourierPush,
			Event:   EventOrderAvailable,
			Payload: offer,
			Push:    offerPush(ready, pickup),
		},
	}
}

func offerPayload(ready *order.Order, pickup restaurant.Restaurant) map[string]any {
	return map[string]any{
		"orderId":        int64(ready.ID()),
		"restaurantId":   int64(ready.RestaurantID()),
		"restaurantName": pickup.Name(),
		"restaurantLocation": map[string]any{
			"latitude":  pickup.Location().Lat(),
			"longitude": pickup.Location().Lng(),
		},
		"items":           itemsPayload(ready.Items()),
		"totalPrice":      ready.TotalPrice(),
		"deliveryAddress": ready.DeliveryAddress(),
		"deliveryLat":     ready.DeliveryPoint().Lat(),
		"deliveryLng":     ready.DeliveryPoint().Lng(),
	}
}

func offerPush(ready *order.Order, pickup restaurant.Restaurant) *PushPlan {
	items, _ := json.Marshal(itemsPayload(ready.Items()))
	location, _ := json.Marshal(map[string]float64{
		"latitude":  pickup.Location().Lat(),
		"longitude": pickup.Location().Lng(),
	})

	return &PushPlan{
		Title: "New Order Available!",
		Body:  offerSummary(ready),
		Data: map[string]string{
			"orderId":            strconv.FormatInt(int64(ready.ID()), 10),
			"restaurantName":     pickup.Name(),
			"restaurantLocation": string(location),
			"items":              string(items),
			"totalPrice":         strconv.FormatFloat(ready.TotalPrice(), 'f', 2, 64),
			"deliveryAddress":    ready.DeliveryAddress(),
			"deliveryLat":        strconv.FormatFloat(ready.DeliveryPoint().Lat(), 'f', -1, 64),
			"deliveryLng":        strconv.FormatFloat(ready.DeliveryPoint().Lng(), 'f', -1, 64),
		},
		Category: "ORDER_OFFER",
	}
}

func offerSummary(ready *order.Order) string {
	parts := make([]string, 0, len(ready.Items()))
	for _, item := range ready.Items() {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity(), item.ProductName()))
	}

	return fmt.Sprintf("%s - $%.2f", strings.Join(parts, ", "), ready.TotalPrice())
}
