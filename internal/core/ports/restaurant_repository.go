package ports

import (
	"context"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/restaurant"
)

// RestaurantRepository is the read-only lookup for restaurant display data
// joined into courier offers and resumption payloads.
type RestaurantRepository interface {
	// Get retrieves a restaurant snapshot by identity.
	// Returns errs.ErrObjectNotFound (wrapped) when the restaurant does not
	// exist.
	Get(ctx context.Context, id kernel.RestaurantID) (restaurant.Restaurant, error)
}
