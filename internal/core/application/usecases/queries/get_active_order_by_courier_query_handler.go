package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

// GetActiveOrderByCourierQueryHandler reads the courier's current
// non-terminal order from the database, joined with the restaurant pickup
// details.
type GetActiveOrderByCourierQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrderByCourierQueryHandler creates a handler for courier
// resume queries. Requires a GORM database connection.
func NewGetActiveOrderByCourierQueryHandler(db *gorm.DB) GetActiveOrderByCourierQueryHandler {
	return GetActiveOrderByCourierQueryHandler{db: db}
}

// Handle executes the query. Returns nil without error when the courier has
// no in-flight order.
func (h GetActiveOrderByCourierQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrderByCourierQuery,
) (*CourierOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_id,
			o.status,
			o.total_price,
			o.delivery_address,
			o.delivery_lat,
			o.delivery_lng,
			r.name,
			r.lat,
			r.lng
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.courier_id = ?
		  AND o.status NOT IN ('DELIVERED', 'CANCELLED')
		ORDER BY o.created_at DESC
		LIMIT 1
	`, int64(query.CourierID())).Row()

	var orderResp CourierOrderResponse

	err := row.Scan(
		&orderResp.OrderID,
		&orderResp.ClientID,
		&orderResp.Status,
		&orderResp.TotalPrice,
		&orderResp.DeliveryAddress,
		&orderResp.DeliveryLat,
		&orderResp.DeliveryLng,
		&orderResp.RestaurantName,
		&orderResp.RestaurantLocation.Latitude,
		&orderResp.RestaurantLocation.Longitude,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := loadOrderItems(ctx, h.db, orderResp.OrderID)
	if err != nil {
		return nil, err
	}
	orderResp.Items = items

	return &orderResp, nil
}
