package restaurantrepo

import (
	"context"
	"errors"
	"strconv"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/restaurant"
	"courierhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRestaurantRepository implements ports.RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GORM restaurant repository.
func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// Get retrieves a restaurant snapshot by ID.
func (r *GormRestaurantRepository) Get(
	ctx context.Context, id kernel.RestaurantID,
) (restaurant.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return restaurant.Restaurant{}, err
	}

	var dto RestaurantDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", int64(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return restaurant.Restaurant{}, errs.NewObjectNotFoundError(
				"restaurant", strconv.FormatInt(int64(id), 10))
		}
		return restaurant.Restaurant{}, err
	}

	return toDomain(dto)
}
