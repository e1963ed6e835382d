package commands

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var ErrMarkReadyCommandIsNotConstructed = errors.New(
	"MarkReadyCommand must be created via NewMarkReadyCommand constructor",
)

// MarkReadyCommand represents a restaurant operator marking an order as
// ready for pickup, which opens it up for courier acceptance.
type MarkReadyCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID

	guard guard.ConstructorGuard
}

// NewMarkReadyCommand creates a command to mark an order ready for pickup.
func NewMarkReadyCommand(orderID kernel.OrderID) (MarkReadyCommand, error) {
	readyCommand := MarkReadyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := readyCommand.setOrderID(orderID); err != nil {
		return MarkReadyCommand{}, err
	}

	return readyCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyCommandIsNotConstructed)
}

// OrderID returns the order being marked ready.
func (c MarkReadyCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c *MarkReadyCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
