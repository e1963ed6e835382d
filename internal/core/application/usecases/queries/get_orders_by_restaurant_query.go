// Package queries contains the read-side use cases of the order
// coordinator. Query handlers read the store directly and return flat
// response structs shaped for the dashboards and apps that consume them.
package queries

import (
	"errors"
	"time"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var ErrGetOrdersByRestaurantQueryIsNotConstructed = errors.New(
	"GetOrdersByRestaurantQuery must be created via NewGetOrdersByRestaurantQuery constructor",
)

// GetOrdersByRestaurantQuery retrieves a restaurant's order history for the
// operator dashboard, newest first.
type GetOrdersByRestaurantQuery struct {
	restaurantID kernel.RestaurantID

	guard guard.ConstructorGuard
}

// NewGetOrdersByRestaurantQuery creates a query for a restaurant's orders.
func NewGetOrdersByRestaurantQuery(restaurantID kernel.RestaurantID) (GetOrdersByRestaurantQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetOrdersByRestaurantQuery{}, err
	}

	return GetOrdersByRestaurantQuery{
		restaurantID: restaurantID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersByRestaurantQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByRestaurantQueryIsNotConstructed)
}

// RestaurantID returns the restaurant whose orders are requested.
func (q GetOrdersByRestaurantQuery) RestaurantID() kernel.RestaurantID {
	return q.restaurantID
}

// OrderItemResponse is one line item of an order response.
type OrderItemResponse struct {
	ProductID   int64   `json:"productId"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price"`
}

// OrderResponse represents one order in a restaurant's history.
type OrderResponse struct {
	OrderID          int64               `json:"orderId"`
	CustomerID       int64               `json:"clientId"`
	Items            []OrderItemResponse `json:"items"`
	TotalPrice       float64             `json:"totalPrice"`
	DeliveryAddress  string              `json:"deliveryAddress"`
	Status           string              `json:"status"`
	CourierName      string              `json:"driverName,omitempty"`
	EstimatedMinutes *int                `json:"estimatedTime,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}
