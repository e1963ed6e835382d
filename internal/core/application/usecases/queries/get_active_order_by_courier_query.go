package queries

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var ErrGetActiveOrderByCourierQueryIsNotConstructed = errors.New(
	"GetActiveOrderByCourierQuery must be created via NewGetActiveOrderByCourierQuery constructor",
)

// GetActiveOrderByCourierQuery retrieves the courier's current in-flight
// order, if any. Used to resume the courier app after a reconnect, so the
// response carries the full pickup and drop-off details.
type GetActiveOrderByCourierQuery struct {
	courierID kernel.CourierID

	guard guard.ConstructorGuard
}

// NewGetActiveOrderByCourierQuery creates a query for the courier's active
// order.
func NewGetActiveOrderByCourierQuery(courierID kernel.CourierID) (GetActiveOrderByCourierQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetActiveOrderByCourierQuery{}, err
	}

	return GetActiveOrderByCourierQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrderByCourierQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrderByCourierQueryIsNotConstructed)
}

// CourierID returns the courier whose active order is requested.
func (q GetActiveOrderByCourierQuery) CourierID() kernel.CourierID {
	return q.courierID
}

// GeoResponse is a latitude/longitude pair in transport shape.
type GeoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CourierOrderResponse represents the courier's active order together with
// the restaurant pickup details.
type CourierOrderResponse struct {
	OrderID            int64               `json:"orderId"`
	ClientID           int64               `json:"clientId"`
	Status             string              `json:"status"`
	Items              []OrderItemResponse `json:"items"`
	TotalPrice         float64             `json:"totalPrice"`
	DeliveryAddress    string              `json:"deliveryAddress"`
	DeliveryLat        float64             `json:"deliveryLat"`
	DeliveryLng        float64             `json:"deliveryLng"`
	RestaurantName     string              `json:"restaurantName"`
	RestaurantLocation GeoResponse         `json:"restaurantLocation"`
}
