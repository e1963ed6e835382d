package commands

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var (
	ErrAcceptOrderCommandIsNotConstructed = errors.New(
		"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
	)
	ErrCourierNameIsRequired = errors.New("courier name is required")
)

// AcceptOrderCommand represents a courier's attempt to take a READY order.
// Several couriers may race for the same order; at most one wins.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.OrderID
	courierID   kernel.CourierID
	courierName string

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a command for a courier accepting an order.
func NewAcceptOrderCommand(
	orderID kernel.OrderID, courierID kernel.CourierID, courierName string,
) (AcceptOrderCommand, error) {
	acceptCommand := AcceptOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		acceptCommand.setOrderID(orderID),
		acceptCommand.setCourierID(courierID),
		acceptCommand.setCourierName(courierName),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return acceptCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// OrderID returns the order the courier wants to take.
func (c AcceptOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// CourierID returns the accepting courier.
func (c AcceptOrderCommand) CourierID() kernel.CourierID {
	return c.courierID
}

// CourierName returns the accepting courier's display name.
func (c AcceptOrderCommand) CourierName() string {
	return c.courierName
}

func (c *AcceptOrderCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AcceptOrderCommand) setCourierID(courierID kernel.CourierID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *AcceptOrderCommand) setCourierName(courierName string) error {
	if courierName == "" {
		return ErrCourierNameIsRequired
	}

	c.courierName = courierName
	return nil
}
