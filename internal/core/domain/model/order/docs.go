// Package order provides domain entities and business logic for delivery
// orders. It implements the Order aggregate root with lifecycle management
// and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, line items and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//   - LineItem: An immutable value object capturing product, quantity and
//     placement-time price
//
// Key business rules:
//   - Orders are placed with at least one line item and a valid restaurant
//   - Status follows a defined workflow: Pending -> Confirmed -> Ready ->
//     DriverAssigned -> PickedUp -> Delivered, with Cancelled reachable from
//     any non-terminal status
//   - A courier is assigned exactly once and never overwritten
//   - Line items are immutable; orders are never hard-deleted
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
