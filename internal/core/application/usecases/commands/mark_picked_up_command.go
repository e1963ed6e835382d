package commands

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var ErrMarkPickedUpCommandIsNotConstructed = errors.New(
	"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
)

// MarkPickedUpCommand represents the assigned courier reporting that the
// order has been collected from the restaurant.
type MarkPickedUpCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.OrderID
	courierID kernel.CourierID

	guard guard.ConstructorGuard
}

// NewMarkPickedUpCommand creates a command for the pickup transition. The
// courier id identifies the reporter and must match the assignment.
func NewMarkPickedUpCommand(
	orderID kernel.OrderID, courierID kernel.CourierID,
) (MarkPickedUpCommand, error) {
	pickupCommand := MarkPickedUpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		pickupCommand.setOrderID(orderID),
		pickupCommand.setCourierID(courierID),
	); err != nil {
		return MarkPickedUpCommand{}, err
	}

	return pickupCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

// OrderID returns the order being picked up.
func (c MarkPickedUpCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// CourierID returns the courier reporting the pickup.
func (c MarkPickedUpCommand) CourierID() kernel.CourierID {
	return c.courierID
}

func (c *MarkPickedUpCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkPickedUpCommand) setCourierID(courierID kernel.CourierID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
