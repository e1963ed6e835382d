package commands

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
	"courierhub/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrOrderItemsAreRequired   = errors.New("at least one order item is required")
	ErrTotalPriceIsInvalid     = errors.New("total price must not be negative")
	ErrDeliveryAddressRequired = errors.New("delivery address is required")
)

// PlaceOrderCommand represents a customer's request to place a new order
// with a restaurant. Encapsulates the ordered items, the total price and
// the delivery destination.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(restaurantID, customerID, items, 24.50, "12 Elm Street", dropOff)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewPlaceOrderCommandHandler(uowFactory)
//	placed, notifications, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	restaurantID    kernel.RestaurantID
	customerID      kernel.CustomerID
	items           []order.LineItem
	totalPrice      float64
	deliveryAddress string
	deliveryPoint   kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order.
// Validates the participant identifiers, the item list, the price and the
// delivery destination. Returns an error if any validation fails.
func NewPlaceOrderCommand(
	restaurantID kernel.RestaurantID,
	customerID kernel.CustomerID,
	items []order.LineItem,
	totalPrice float64,
	deliveryAddress string,
	deliveryPoint kernel.GeoPoint,
) (PlaceOrderCommand, error) {
	placeCommand := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		placeCommand.setRestaurantID(restaurantID),
		placeCommand.setCustomerID(customerID),
		placeCommand.setItems(items),
		placeCommand.setTotalPrice(totalPrice),
		placeCommand.setDeliveryAddress(deliveryAddress),
		placeCommand.setDeliveryPoint(deliveryPoint),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return placeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPlaceOrderCommandIsNotConstructed if validation fails.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// RestaurantID returns the restaurant the order is placed with.
func (c PlaceOrderCommand) RestaurantID() kernel.RestaurantID {
	return c.restaurantID
}

// CustomerID returns the customer placing the order.
func (c PlaceOrderCommand) CustomerID() kernel.CustomerID {
	return c.customerID
}

// Items returns a copy of the ordered line items.
func (c PlaceOrderCommand) Items() []order.LineItem {
	items := make([]order.LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// TotalPrice returns the total price quoted for the order.
func (c PlaceOrderCommand) TotalPrice() float64 {
	return c.totalPrice
}

// DeliveryAddress returns the human readable delivery address.
func (c PlaceOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// DeliveryPoint returns the delivery drop-off coordinates.
func (c PlaceOrderCommand) DeliveryPoint() kernel.GeoPoint {
	return c.deliveryPoint
}

func (c *PlaceOrderCommand) setRestaurantID(restaurantID kernel.RestaurantID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.CustomerID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setItems(items []order.LineItem) error {
	if len(items) == 0 {
		return ErrOrderItemsAreRequired
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = make([]order.LineItem, len(items))
	copy(c.items, items)
	return nil
}

func (c *PlaceOrderCommand) setTotalPrice(totalPrice float64) error {
	if totalPrice < 0 {
		return ErrTotalPriceIsInvalid
	}

	c.totalPrice = totalPrice
	return nil
}

func (c *PlaceOrderCommand) setDeliveryAddress(deliveryAddress string) error {
	if deliveryAddress == "" {
		return ErrDeliveryAddressRequired
	}

	c.deliveryAddress = deliveryAddress
	return nil
}

func (c *PlaceOrderCommand) setDeliveryPoint(deliveryPoint kernel.GeoPoint) error {
	if err := deliveryPoint.Validate(); err != nil {
		return err
	}

	c.deliveryPoint = deliveryPoint
	return nil
}
