package ports

import (
	"context"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The store is the single source of truth for orders; the coordinator only
// works on transient copies loaded per transition.
type OrderRepository interface {
	// Add persists a freshly placed order together with its line items in one
	// atomic write, and records the store-assigned identity on the aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identity, line items included.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// AssignCourier performs the conditional courier assignment: the update
	// only applies while the order is still in Ready status with no courier.
	// Returns false (and no error) when the condition no longer holds, i.e.
	// the caller lost the acceptance race.
	AssignCourier(ctx context.Context, id kernel.OrderID, courierID kernel.CourierID, courierName string) (bool, error)

	// GetActiveByCustomer retrieves the customer's most recent non-terminal
	// order. Returns errs.ErrObjectNotFound (wrapped) when there is none.
	GetActiveByCustomer(ctx context.Context, customerID kernel.CustomerID) (*order.Order, error)

	// GetActiveByCourier retrieves the courier's current non-terminal order.
	// Returns errs.ErrObjectNotFound (wrapped) when there is none.
	GetActiveByCourier(ctx context.Context, courierID kernel.CourierID) (*order.Order, error)

	// GetAllReadyUnassigned retrieves orders waiting for a courier: Ready
	// status, no courier assigned. Used to re-offer stale orders.
	GetAllReadyUnassigned(ctx context.Context) ([]*order.Order, error)
}
