package ports

import (
	"courierhub/internal/core/domain/model/kernel"
)

// CourierSession is the ephemeral per-connection state of a registered
// courier: availability, the currently assigned order (if any) and the last
// reported position. Destroyed on disconnect, never persisted.
type CourierSession struct {
	CourierID    kernel.CourierID
	Name         string
	Available    bool
	CurrentOrder *kernel.OrderID
	LastKnown    *kernel.GeoPoint
}

// PresenceRegistry tracks which participant is reachable on which connection.
// It is process-local, volatile state: rebuilt from nothing at process start
// as clients reconnect and re-register. All operations are safe for
// concurrent use; mutations are applied atomically per key.
//
// The customer mapping follows a last-registration-wins discipline: a later
// registration for the same customer identity supersedes the mapping used for
// targeted delivery without evicting the earlier raw connection.
type PresenceRegistry interface {
	// RegisterCourier records a courier session on the connection with
	// status available and no assigned order. Idempotent per connection.
	RegisterCourier(conn kernel.ConnID, courierID kernel.CourierID, name string)

	// RegisterOperator records that the connection is a restaurant operator
	// watching the given restaurant.
	RegisterOperator(conn kernel.ConnID, restaurantID kernel.RestaurantID)

	// RegisterCustomer records the customer's current connection, overwriting
	// any prior connection recorded for that identity.
	RegisterCustomer(conn kernel.ConnID, customerID kernel.CustomerID)

	// SetCourierBusy marks the courier on the connection as busy with the
	// given order. No-op when the connection has no courier session.
	SetCourierBusy(conn kernel.ConnID, orderID kernel.OrderID)

	// SetCourierAvailable marks the courier on the connection as available
	// again and clears the assigned order. No-op when the connection has no
	// courier session.
	SetCourierAvailable(conn kernel.ConnID)

	// RecordCourierLocation stores the courier's last reported position.
	// Most recent write wins; no history is kept.
	RecordCourierLocation(conn kernel.ConnID, point kernel.GeoPoint)

	// Remove deletes the connection from every mapping. The customer mapping
	// is only removed when it still points at this connection, so a late
	// disconnect of a superseded connection never deletes a newer
	// registration. Idempotent.
	Remove(conn kernel.ConnID)

	// CourierSession returns the courier session recorded on the connection.
	CourierSession(conn kernel.ConnID) (CourierSession, bool)

	// AvailableCourierConnections returns every connection currently
	// registered as an available courier.
	AvailableCourierConnections() []kernel.ConnID

	// CourierConnections returns every connection on which the given courier
	// is registered.
	CourierConnections(courierID kernel.CourierID) []kernel.ConnID

	// OperatorConnections returns the connections of every operator
	// registered for the given restaurant.
	OperatorConnections(restaurantID kernel.RestaurantID) []kernel.ConnID

	// CustomerConnection returns the customer's current connection, if the
	// customer is connected.
	CustomerConnection(customerID kernel.CustomerID) (kernel.ConnID, bool)
}
