// Package presence provides the in-memory presence registry. It is the
// volatile side of the coordinator: every mapping lives for the duration of
// a connection and is rebuilt naturally as clients reconnect after a process
// restart.
package presence

import (
	"sync"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/ports"
)

type courierState struct {
	courierID    kernel.CourierID
	name         string
	available    bool
	currentOrder *kernel.OrderID
	lastKnown    *kernel.GeoPoint
}

// Registry implements ports.PresenceRegistry with mutex-guarded maps.
type Registry struct {
	mu sync.RWMutex

	couriers  map[kernel.ConnID]*courierState
	operators map[kernel.ConnID]kernel.RestaurantID

	// customers maps identity to the connection used for targeted delivery;
	// customerConns is the reverse index consulted on disconnect.
	customers     map[kernel.CustomerID]kernel.ConnID
	customerConns map[kernel.ConnID]kernel.CustomerID
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		couriers:      make(map[kernel.ConnID]*courierState),
		operators:     make(map[kernel.ConnID]kernel.RestaurantID),
		customers:     make(map[kernel.CustomerID]kernel.ConnID),
		customerConns: make(map[kernel.ConnID]kernel.CustomerID),
	}
}

// RegisterCourier records a courier session on the connection, available and
// unassigned.
func (r *Registry) RegisterCourier(conn kernel.ConnID, courierID kernel.CourierID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.couriers[conn] = &courierState{
		courierID: courierID,
		name:      name,
		available: true,
	}
}

// RegisterOperator records the connection as an operator of the restaurant.
func (r *Registry) RegisterOperator(conn kernel.ConnID, restaurantID kernel.RestaurantID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.operators[conn] = restaurantID
}

// RegisterCustomer records the customer's connection. A later registration
// for the same customer supersedes the earlier one.
func (r *Registry) RegisterCustomer(conn kernel.ConnID, customerID kernel.CustomerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.customers[customerID]; ok {
		delete(r.customerConns, prev)
	}
	r.customers[customerID] = conn
	r.customerConns[conn] = customerID
}

// SetCourierBusy marks the courier on the connection as carrying the order.
func (r *Registry) SetCourierBusy(conn kernel.ConnID, orderID kernel.OrderID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.couriers[conn]; ok {
		session.available = false
		session.currentOrder = &orderID
	}
}

// SetCourierAvailable marks the courier on the connection as free again.
func (r *Registry) SetCourierAvailable(conn kernel.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.couriers[conn]; ok {
		session.available = true
		session.currentOrder = nil
	}
}

// RecordCourierLocation stores the courier's last reported position.
func (r *Registry) RecordCourierLocation(conn kernel.ConnID, point kernel.GeoPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.couriers[conn]; ok {
		session.lastKnown = &point
	}
}

// Remove deletes the connection from every mapping. The customer identity
// mapping is only dropped while it still points at this connection.
func (r *Registry) Remove(conn kernel.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.couriers, conn)
	delete(r.operators, conn)

	if customerID, ok := r.customerConns[conn]; ok {
		delete(r.customerConns, conn)
		if current, ok := r.customers[customerID]; ok && current.IsEqual(conn) {
			delete(r.customers, customerID)
		}
	}
}

// CourierSession returns a snapshot of the courier session on the
// connection.
func (r *Registry) CourierSession(conn kernel.ConnID) (ports.CourierSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.couriers[conn]
	if !ok {
		return ports.CourierSession{}, false
	}

	snapshot := ports.CourierSession{
		CourierID: session.courierID,
		Name:      session.name,
		Available: session.available,
	}
	if session.currentOrder != nil {
		orderID := *session.currentOrder
		snapshot.CurrentOrder = &orderID
	}
	if session.lastKnown != nil {
		point := *session.lastKnown
		snapshot.LastKnown = &point
	}

	return snapshot, true
}

// AvailableCourierConnections returns the connections of couriers currently
// open to offers.
func (r *Registry) AvailableCourierConnections() []kernel.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]kernel.ConnID, 0, len(r.couriers))
	for conn, session := range r.couriers {
		if session.available {
			conns = append(conns, conn)
		}
	}
	return conns
}

// CourierConnections returns every connection the courier is registered on.
func (r *Registry) CourierConnections(courierID kernel.CourierID) []kernel.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]kernel.ConnID, 0, 1)
	for conn, session := range r.couriers {
		if session.courierID == courierID {
			conns = append(conns, conn)
		}
	}
	return conns
}

// OperatorConnections returns the connections of every operator registered
// for the given restaurant.
func (r *Registry) OperatorConnections(restaurantID kernel.RestaurantID) []kernel.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []kernel.ConnID
	for conn, registered := range r.operators {
		if registered == restaurantID {
			conns = append(conns, conn)
		}
	}
	return conns
}

// CustomerConnection returns the customer's current connection.
func (r *Registry) CustomerConnection(customerID kernel.CustomerID) (kernel.ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.customers[customerID]
	return conn, ok
}
