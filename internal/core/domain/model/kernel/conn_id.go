package kernel

import (
	"fmt"

	"courierhub/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrConnIDIsNotConstructed indicates that a ConnID was not initialized through
// one of the constructor functions. This error is returned when validating a
// zero-value ConnID.
var ErrConnIDIsNotConstructed = errs.NewValueIsRequiredError(
	"ConnID must be created via NewConnID or ConnIDFromString")

// ConnID is a value object identifying exactly one live connection session.
// It wraps the github.com/google/uuid implementation to provide domain-specific
// behavior and ensure immutability. A fresh ConnID is minted by the transport
// layer every time a connection is accepted; it is never reused and never
// persisted.
//
// The zero value of ConnID is invalid and must be constructed via NewConnID
// or ConnIDFromString.
type ConnID struct {
	id uuid.UUID
}

// NewConnID generates a new random connection identity.
// The transport layer calls this once per accepted connection.
func NewConnID() ConnID {
	return ConnID{
		id: uuid.New(),
	}
}

// ConnIDFromString parses a ConnID from its string representation.
// Returns an error if the string is not a valid UUID.
func ConnIDFromString(s string) (ConnID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ConnID{}, fmt.Errorf("invalid connection id format: %w", err)
	}
	return ConnID{id: id}, nil
}

// String returns the standard UUID string representation of the connection id.
func (c ConnID) String() string {
	return c.id.String()
}

// IsEqual compares two connection identities for equality.
func (c ConnID) IsEqual(other ConnID) bool {
	return c.id == other.id
}

// Validate checks that the ConnID was minted by a constructor.
// Returns ErrConnIDIsNotConstructed for the zero value.
func (c ConnID) Validate() error {
	if c.id == uuid.Nil {
		return ErrConnIDIsNotConstructed
	}
	return nil
}
