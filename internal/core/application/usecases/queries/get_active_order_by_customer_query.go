package queries

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/guard"
)

var ErrGetActiveOrderByCustomerQueryIsNotConstructed = errors.New(
	"GetActiveOrderByCustomerQuery must be created via NewGetActiveOrderByCustomerQuery constructor",
)

// GetActiveOrderByCustomerQuery retrieves a customer's current in-flight
// order, if any. Used to resume the customer app after a reconnect.
type GetActiveOrderByCustomerQuery struct {
	customerID kernel.CustomerID

	guard guard.ConstructorGuard
}

// NewGetActiveOrderByCustomerQuery creates a query for the customer's
// active order.
func NewGetActiveOrderByCustomerQuery(customerID kernel.CustomerID) (GetActiveOrderByCustomerQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetActiveOrderByCustomerQuery{}, err
	}

	return GetActiveOrderByCustomerQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrderByCustomerQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrderByCustomerQueryIsNotConstructed)
}

// CustomerID returns the customer whose active order is requested.
func (q GetActiveOrderByCustomerQuery) CustomerID() kernel.CustomerID {
	return q.customerID
}
