// Package restaurant provides the read-side model of a restaurant as the
// coordinator needs it: display name and pickup coordinates for courier
// offers and resumption payloads. Restaurant management itself is owned by an
// external collaborator.
package restaurant

import (
	"errors"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/errs"
	"courierhub/internal/pkg/guard"
)

// ErrRestaurantIsNotConstructed is returned when a Restaurant was not created
// via NewRestaurant.
var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")

// Restaurant is an immutable snapshot of a restaurant's identity, display
// name and location.
type Restaurant struct {
	id       kernel.RestaurantID
	name     string
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewRestaurant creates a restaurant snapshot.
func NewRestaurant(id kernel.RestaurantID, name string, location kernel.GeoPoint) (Restaurant, error) {
	if err := id.Validate(); err != nil {
		return Restaurant{}, err
	}
	if name == "" {
		return Restaurant{}, errs.NewValueIsRequiredError("name")
	}
	if err := location.Validate(); err != nil {
		return Restaurant{}, err
	}

	return Restaurant{
		id:       id,
		name:     name,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the snapshot was created via NewRestaurant.
func (r Restaurant) Validate() error {
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

// ID returns the restaurant identity.
func (r Restaurant) ID() kernel.RestaurantID {
	return r.id
}

// Name returns the restaurant display name.
func (r Restaurant) Name() string {
	return r.name
}

// Location returns the restaurant's pickup coordinates.
func (r Restaurant) Location() kernel.GeoPoint {
	return r.location
}
