// Package restaurantrepo provides the read-only restaurant lookup backed by
// the restaurants table.
package restaurantrepo

import (
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/restaurant"
)

// RestaurantDTO represents one row of the restaurants table.
type RestaurantDTO struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255)"`
	Lat  float64
	Lng  float64
}

// TableName specifies the database table name for restaurant entities.
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// toDomain converts a database DTO to a restaurant snapshot.
func toDomain(dto RestaurantDTO) (restaurant.Restaurant, error) {
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return restaurant.Restaurant{}, err
	}

	return restaurant.NewRestaurant(kernel.RestaurantID(dto.ID), dto.Name, location)
}
