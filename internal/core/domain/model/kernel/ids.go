package kernel

import "courierhub/internal/pkg/errs"

// Typed identities for the participants and entities the coordinator tracks.
// The store assigns them as positive integers; zero means "not assigned yet"
// and fails validation.
type (
	// OrderID identifies a delivery order.
	OrderID int64

	// CustomerID identifies a customer participant.
	CustomerID int64

	// RestaurantID identifies a restaurant.
	RestaurantID int64

	// CourierID identifies a courier participant.
	CourierID int64

	// ProductID identifies a product captured in an order line item.
	ProductID int64
)

// Validate checks that the order id is a positive store-assigned value.
func (id OrderID) Validate() error {
	return validateID("orderId", int64(id))
}

// Validate checks that the customer id is a positive store-assigned value.
func (id CustomerID) Validate() error {
	return validateID("customerId", int64(id))
}

// Validate checks that the restaurant id is a positive store-assigned value.
func (id RestaurantID) Validate() error {
	return validateID("restaurantId", int64(id))
}

// Validate checks that the courier id is a positive store-assigned value.
func (id CourierID) Validate() error {
	return validateID("courierId", int64(id))
}

// Validate checks that the product id is a positive store-assigned value.
func (id ProductID) Validate() error {
	return validateID("productId", int64(id))
}

func validateID(paramName string, value int64) error {
	if value <= 0 {
		return errs.NewValueIsRequiredError(paramName)
	}
	return nil
}
