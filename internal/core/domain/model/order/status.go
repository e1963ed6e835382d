package order

import (
	"errors"
	"fmt"

	"courierhub/internal/pkg/errs"
)

// ErrStatusTransitionNotAllowed is the unwrap target for every rejected
// lifecycle transition. The wrapped message names the attempted operation and
// the current authoritative status so it can be reported back to the
// requesting connection as a rejection reason.
var ErrStatusTransitionNotAllowed = errors.New("status transition not allowed")

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct business workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Ready ──> DriverAssigned ──> PickedUp ──> Delivered
//	   │            │           │             │               │
//	   └────────────┴───────────┴─────────────┴───────────────┴──> Cancelled
//
// Ready is also reachable directly from Pending (operators may skip the
// explicit confirmation). Delivered and Cancelled are terminal.
//
// Status is a value object that validates state transitions and provides the
// string representation used both on the wire and in persistence.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when a customer places an order.
	// The order is waiting for the restaurant operator to confirm it.
	Pending

	// Confirmed indicates the restaurant accepted the order and committed to
	// an estimated preparation time.
	Confirmed

	// Ready indicates the order is prepared and waiting for a courier.
	// Orders in this status are offered to every available courier.
	Ready

	// DriverAssigned indicates exactly one courier won the acceptance race.
	DriverAssigned

	// PickedUp indicates the assigned courier collected the order from the
	// restaurant and is on the way to the customer.
	PickedUp

	// Delivered indicates the order reached the customer.
	// This is a terminal state.
	Delivered

	// Cancelled indicates the order was cancelled before delivery.
	// This is a terminal state reachable from any non-terminal status.
	Cancelled
)

// getStatusStrings returns a map of Status values to their wire/storage names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Ready:          "READY",
		DriverAssigned: "DRIVER_ASSIGNED",
		PickedUp:       "PICKED_UP",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Ready:          "READY",
		DriverAssigned: "DRIVER_ASSIGNED",
		PickedUp:       "PICKED_UP",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// StatusFromString parses the wire/storage name of a status.
// Returns an error for names that do not correspond to a valid status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any value outside the defined set are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire/storage name of the status.
// It implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHaveCourier validates the consistency between order status and
// courier assignment.
//
// Business rules:
//   - Pending, Confirmed and Ready orders must not have a courier assigned
//   - DriverAssigned, PickedUp and Delivered orders must have one
//   - Cancelled orders keep whatever assignment they had at cancellation time
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if s == Cancelled {
		return nil
	}

	if courier && s != DriverAssigned && s != PickedUp && s != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a courier", s))
	}

	if !courier && (s == DriverAssigned || s == PickedUp || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no courier", s))
	}

	return nil
}

// Confirm transitions the status to Confirmed.
//
// Valid transitions:
//   - Pending -> Confirmed
//
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Confirm() (Status, error) {
	if s != Pending {
		return 0, transitionError("confirm", s)
	}
	return Confirmed, nil
}

// Ready transitions the status to Ready.
//
// Valid transitions:
//   - Confirmed -> Ready
//   - Pending -> Ready (operator skipped the explicit confirmation)
//
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Ready() (Status, error) {
	if s != Confirmed && s != Pending {
		return 0, transitionError("mark ready", s)
	}
	return Ready, nil
}

// AssignCourier transitions the status to DriverAssigned.
//
// Valid transitions:
//   - Ready -> DriverAssigned
//
// The in-process transition is only half of the acceptance protocol: the store
// applies the matching conditional update so that concurrent acceptors yield
// exactly one winner.
func (s Status) AssignCourier() (Status, error) {
	if s != Ready {
		return 0, transitionError("assign courier", s)
	}
	return DriverAssigned, nil
}

// PickUp transitions the status to PickedUp.
//
// Valid transitions:
//   - DriverAssigned -> PickedUp
func (s Status) PickUp() (Status, error) {
	if s != DriverAssigned {
		return 0, transitionError("pick up", s)
	}
	return PickedUp, nil
}

// Deliver transitions the status to Delivered, the happy-path terminal state.
//
// Valid transitions:
//   - PickedUp -> Delivered
func (s Status) Deliver() (Status, error) {
	if s != PickedUp {
		return 0, transitionError("deliver", s)
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions: any non-terminal status -> Cancelled.
// Delivered and Cancelled orders cannot be cancelled (again).
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, transitionError("cancel", s)
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return Cancelled, nil
}

func transitionError(operation string, current Status) error {
	return fmt.Errorf("%w: cannot %s order in status %s",
		ErrStatusTransitionNotAllowed, operation, current)
}
