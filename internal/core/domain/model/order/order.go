package order

import (
	"errors"
	"fmt"
	"time"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder. This ensures all orders are
	// properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderIDAlreadyAssigned is returned when the store-assigned identity
	// is set a second time.
	ErrOrderIDAlreadyAssigned = errors.New("order id is already assigned")

	// ErrCourierAlreadyAssigned is returned when a courier assignment is
	// attempted on an order that already has one. The courier id is never
	// overwritten once set.
	ErrCourierAlreadyAssigned = errors.New("courier is already assigned to the order")
)

// Order represents a delivery order. It is the aggregate root that drives the
// order lifecycle from placement through confirmation, courier assignment and
// pickup to delivery or cancellation.
//
// Order maintains these invariants:
//   - line items are non-empty, created with the order and never mutated
//   - status transitions follow the Status state machine
//   - the courier id is set exactly once, on the Ready -> DriverAssigned
//     transition, and is never overwritten
//   - an order can only be created through NewOrder or RestoreOrder
//
// The coordinator holds no authoritative copy of an order: instances of this
// type are transient working copies loaded per transition, and the store's
// row is the source of truth.
type Order struct {
	// id is the store-assigned identity; zero until the order is persisted
	id kernel.OrderID

	// restaurantID is the restaurant preparing the order
	restaurantID kernel.RestaurantID

	// customerID is the customer who placed the order
	customerID kernel.CustomerID

	// courierID is the assigned courier (nil until the acceptance race is won)
	courierID *kernel.CourierID

	// courierName is the assigned courier's display name
	courierName string

	// status is the current state in the order lifecycle
	status Status

	// totalPrice is the total captured at placement time
	totalPrice float64

	// deliveryAddress is the human-readable destination address
	deliveryAddress string

	// deliveryPoint is the destination's coordinates
	deliveryPoint kernel.GeoPoint

	// estimatedMinutes is the preparation/delivery estimate committed by the
	// operator on confirmation (nil before that)
	estimatedMinutes *int

	// createdAt is the placement timestamp
	createdAt time.Time

	// items are the order's line items, immutable after construction
	items []LineItem

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a freshly placed Order in Pending status with no
// store-assigned identity yet. This is the entry point of the lifecycle: the
// customer's connection supplies the restaurant, the line items and the
// delivery destination, and the store assigns the id on first persist.
//
// Validation rules:
//   - restaurant and customer ids must be valid
//   - at least one line item, each individually valid
//   - total price non-negative
//   - delivery address non-empty, delivery point constructed
func NewOrder(
	restaurantID kernel.RestaurantID,
	customerID kernel.CustomerID,
	items []LineItem,
	totalPrice float64,
	deliveryAddress string,
	deliveryPoint kernel.GeoPoint,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setRestaurantID(restaurantID),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setTotalPrice(totalPrice),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryPoint(deliveryPoint),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence. Unlike NewOrder it
// accepts the full stored state, including status, courier assignment and the
// store-assigned id, and re-checks the status/courier consistency invariant.
func RestoreOrder(
	id kernel.OrderID,
	restaurantID kernel.RestaurantID,
	customerID kernel.CustomerID,
	items []LineItem,
	totalPrice float64,
	deliveryAddress string,
	deliveryPoint kernel.GeoPoint,
	status Status,
	courierID *kernel.CourierID,
	courierName string,
	estimatedMinutes *int,
	createdAt time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
	}

	o := &Order{
		status:        status,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setRestaurantID(restaurantID),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setTotalPrice(totalPrice),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryPoint(deliveryPoint),
	); err != nil {
		return nil, err
	}

	o.id = id
	o.courierID = courierID
	o.courierName = courierName
	o.estimatedMinutes = estimatedMinutes
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed otherwise.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their store-assigned identities.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != 0 && o.id == other.id
}

// ID returns the store-assigned order identity (zero before first persist).
func (o *Order) ID() kernel.OrderID {
	return o.id
}

// RestaurantID returns the restaurant preparing the order.
func (o *Order) RestaurantID() kernel.RestaurantID {
	return o.restaurantID
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.CustomerID {
	return o.customerID
}

// Courier returns the assigned courier's id, or nil if no courier is assigned.
func (o *Order) Courier() *kernel.CourierID {
	return o.courierID
}

// CourierName returns the assigned courier's display name.
func (o *Order) CourierName() string {
	return o.courierName
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// TotalPrice returns the total captured at placement time.
func (o *Order) TotalPrice() float64 {
	return o.totalPrice
}

// DeliveryAddress returns the human-readable destination address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// DeliveryPoint returns the destination's coordinates.
func (o *Order) DeliveryPoint() kernel.GeoPoint {
	return o.deliveryPoint
}

// EstimatedMinutes returns the operator's estimate, or nil before confirmation.
func (o *Order) EstimatedMinutes() *int {
	return o.estimatedMinutes
}

// CreatedAt returns the placement timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// AssignID records the store-assigned identity after the first persist.
// The id is set exactly once; further calls return ErrOrderIDAlreadyAssigned.
func (o *Order) AssignID(id kernel.OrderID) error {
	if o.id != 0 {
		return ErrOrderIDAlreadyAssigned
	}
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// Confirm moves the order to Confirmed and records the operator's estimated
// preparation/delivery time in minutes.
func (o *Order) Confirm(estimatedMinutes int) error {
	if estimatedMinutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedMinutes",
			fmt.Errorf("%d is not greater than 0", estimatedMinutes))
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.estimatedMinutes = &estimatedMinutes
	return nil
}

// MarkReady moves the order to Ready, making it eligible for courier offers.
func (o *Order) MarkReady() error {
	newStatus, err := o.status.Ready()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// AssignCourier records the winning courier of the acceptance race and moves
// the order to DriverAssigned.
//
// Business rules:
//   - the courier id must be valid
//   - the order must be in Ready status
//   - the courier id is never overwritten once set
//
// Note that this method only mirrors the authoritative conditional update at
// the store; the coordinator relies on the store's compare-and-set to resolve
// concurrent acceptors.
func (o *Order) AssignCourier(courierID kernel.CourierID, courierName string) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.courierID != nil {
		return ErrCourierAlreadyAssigned
	}

	newStatus, err := o.status.AssignCourier()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	o.courierName = courierName
	return nil
}

// MarkPickedUp moves the order to PickedUp.
func (o *Order) MarkPickedUp() error {
	newStatus, err := o.status.PickUp()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkDelivered moves the order to Delivered, the happy-path terminal state.
func (o *Order) MarkDelivered() error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel moves the order to Cancelled from any non-terminal status.
// Orders are never hard-deleted; cancellation is the only destructive path.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) setRestaurantID(restaurantID kernel.RestaurantID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	o.restaurantID = restaurantID
	return nil
}

func (o *Order) setCustomerID(customerID kernel.CustomerID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setTotalPrice(totalPrice float64) error {
	if totalPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalPrice",
			fmt.Errorf("%f is negative", totalPrice))
	}
	o.totalPrice = totalPrice
	return nil
}

func (o *Order) setDeliveryAddress(deliveryAddress string) error {
	if deliveryAddress == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.deliveryAddress = deliveryAddress
	return nil
}

func (o *Order) setDeliveryPoint(deliveryPoint kernel.GeoPoint) error {
	if err := deliveryPoint.Validate(); err != nil {
		return err
	}
	o.deliveryPoint = deliveryPoint
	return nil
}
