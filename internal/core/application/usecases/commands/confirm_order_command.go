package commands

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var (
	ErrConfirmOrderCommandIsNotConstructed = errors.New(
		"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
	)
	ErrEstimatedMinutesAreInvalid = errors.New("estimated minutes must be greater than 0")
)

// ConfirmOrderCommand represents a restaurant operator's confirmation of a
// pending order together with the preparation time estimate shown to the
// customer.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.OrderID
	estimatedMinutes int

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm a pending order.
// Validates that the order id is assigned and the estimate is positive.
func NewConfirmOrderCommand(orderID kernel.OrderID, estimatedMinutes int) (ConfirmOrderCommand, error) {
	confirmCommand := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		confirmCommand.setOrderID(orderID),
		confirmCommand.setEstimatedMinutes(estimatedMinutes),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return confirmCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the order being confirmed.
func (c ConfirmOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// EstimatedMinutes returns the preparation time estimate in minutes.
func (c ConfirmOrderCommand) EstimatedMinutes() int {
	return c.estimatedMinutes
}

func (c *ConfirmOrderCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setEstimatedMinutes(estimatedMinutes int) error {
	if estimatedMinutes <= 0 {
		return ErrEstimatedMinutesAreInvalid
	}

	c.estimatedMinutes = estimatedMinutes
	return nil
}
