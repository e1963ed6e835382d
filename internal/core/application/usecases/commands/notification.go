package commands

import (
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
)

// Outbound event names shared by every delivery channel.
const (
	EventOrderPlaced         = "order_placed"
	EventNewOrder            = "new_order"
	EventOrderConfirmed      = "order_confirmed"
	EventOrderReady          = "order_ready"
	EventOrderAvailable      = "order_available"
	EventDriverAssigned      = "driver_assigned"
	EventDriverAssignedAdmin = "driver_assigned_admin"
	EventOrderAssigned       = "order_assigned"
	EventOrderRejected       = "order_rejected"
	EventOrderPickedUp       = "order_picked_up"
	EventOrderPickedUpAdmin  = "order_picked_up_admin"
	EventOrderDelivered      = "order_delivered"
	EventOrderCompleted      = "order_completed"
	EventOrderCancelled      = "order_cancelled"
)

// NotificationTarget selects the audience of a Notification.
type NotificationTarget int

const (
	// TargetCustomer delivers to the customer's registered connection.
	TargetCustomer NotificationTarget = iota + 1
	// TargetOperators delivers to the operators of the notification's
	// restaurant.
	TargetOperators
	// TargetAvailableCouriers delivers to every connected courier that is
	// not currently carrying an order.
	TargetAvailableCouriers
	// TargetCourier delivers to the connections of one specific courier.
	TargetCourier
	// TargetCourierPush delivers a push message to every courier with a
	// registered push address, as the offline complement of
	// TargetAvailableCouriers.
	TargetCourierPush
)

// PushPlan describes the push message sent for TargetCourierPush
// notifications. Addresses are resolved by the dispatcher.
type PushPlan struct {
	Title    string
	Body     string
	Data     map[string]string
	Category string
}

func itemsPayload(items []order.LineItem) []map[string]any {
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, map[string]any{
			"productId": int64(item.ProductID()),
			"name":      item.ProductName(),
			"quantity":  item.Quantity(),
			"price":     item.PriceAtTime(),
		})
	}
	return payload
}

// Notification is one outbound message produced by a lifecycle transition.
// Handlers return them after committing; they are never delivered inside
// the transaction.
type Notification struct {
	Target     NotificationTarget
	Customer   kernel.CustomerID
	Courier    kernel.CourierID
	Restaurant kernel.RestaurantID
	Event      string
	Payload    map[string]any
	Push       *PushPlan
}
