// Package ws provides the websocket inbound adapter: the connection hub,
// the JSON frame protocol and the event router that translates frames into
// lifecycle commands.
package ws

import "encoding/json"

// Frame is the wire envelope of every websocket message, inbound and
// outbound.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	EventRegisterCourier  = "register_courier"
	EventRegisterOperator = "register_operator"
	EventRegisterCustomer = "register_customer"
	EventCourierLocation  = "courier_location"
	EventPlaceOrder       = "place_order"
	EventConfirmOrder     = "confirm_order"
	EventMarkReady        = "mark_ready"
	EventAcceptOrder      = "accept_order"
	EventMarkPickedUp     = "mark_picked_up"
	EventMarkDelivered    = "mark_delivered"
	EventCancelOrder      = "cancel_order"
)

// Outbound event names owned by this adapter. Lifecycle fan-out events are
// named in the commands package.
const (
	EventResumeCourierOrder   = "resume_courier_order"
	EventResumeCustomerOrder  = "resume_customer_order"
	EventDriverLocationUpdate = "driver_location_update"
	EventOrderError           = "order_error"
)

type registerCourierData struct {
	DriverID   int64  `json:"driverId"`
	DriverName string `json:"driverName"`
}

type registerOperatorData struct {
	RestaurantID int64 `json:"restaurantId"`
}

type registerCustomerData struct {
	ClientID int64 `json:"clientId"`
}

type courierLocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type orderItemData struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type placeOrderData struct {
	RestaurantID    int64           `json:"restaurantId"`
	ClientID        int64           `json:"clientId"`
	Items           []orderItemData `json:"items"`
	TotalPrice      float64         `json:"totalPrice"`
	DeliveryAddress string          `json:"deliveryAddress"`
	DeliveryLat     float64         `json:"deliveryLat"`
	DeliveryLng     float64         `json:"deliveryLng"`
}

type confirmOrderData struct {
	OrderID       int64 `json:"orderId"`
	EstimatedTime int   `json:"estimatedTime"`
}

type orderIDData struct {
	OrderID int64 `json:"orderId"`
}

type acceptOrderData struct {
	OrderID    int64  `json:"orderId"`
	DriverName string `json:"driverName"`
}
