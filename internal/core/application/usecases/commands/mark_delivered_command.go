package commands

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand represents the assigned courier reporting that the
// order reached the customer, completing the delivery.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.OrderID
	courierID kernel.CourierID

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a command for the delivery transition.
func NewMarkDeliveredCommand(
	orderID kernel.OrderID, courierID kernel.CourierID,
) (MarkDeliveredCommand, error) {
	deliverCommand := MarkDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		deliverCommand.setOrderID(orderID),
		deliverCommand.setCourierID(courierID),
	); err != nil {
		return MarkDeliveredCommand{}, err
	}

	return deliverCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// OrderID returns the order being delivered.
func (c MarkDeliveredCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// CourierID returns the courier reporting the delivery.
func (c MarkDeliveredCommand) CourierID() kernel.CourierID {
	return c.courierID
}

func (c *MarkDeliveredCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkDeliveredCommand) setCourierID(courierID kernel.CourierID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
