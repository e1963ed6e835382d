// Package kernel provides core domain primitives for the order coordinator.
// It implements fundamental building blocks following Domain-Driven Design
// principles that are used throughout the domain model.
//
// The package includes:
//   - GeoPoint: A value object for validated geographic coordinates
//   - OrderID, CustomerID, RestaurantID, CourierID, ProductID: typed identities
//     for the entities the coordinator works with
//   - ConnID: A value object identifying one live connection session
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are designed to be
// immutable and thread-safe, making them suitable for concurrent use.
package kernel
