package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// GetOrdersByRestaurantQueryHandler reads a restaurant's order history from
// the database, line items included.
type GetOrdersByRestaurantQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersByRestaurantQueryHandler creates a handler for restaurant
// order history queries. Requires a GORM database connection.
func NewGetOrdersByRestaurantQueryHandler(db *gorm.DB) GetOrdersByRestaurantQueryHandler {
	return GetOrdersByRestaurantQueryHandler{db: db}
}

// Handle executes the query. Orders are returned newest first with their
// line items attached.
func (h GetOrdersByRestaurantQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByRestaurantQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]OrderResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			total_price,
			delivery_address,
			status,
			courier_name,
			estimated_minutes,
			created_at
		FROM orders
		WHERE restaurant_id = ?
		ORDER BY created_at DESC
	`, int64(query.RestaurantID())).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[int64]int)
	for rows.Next() {
		var orderResp OrderResponse
		var courierName sql.NullString
		var estimatedMinutes sql.NullInt64

		err = rows.Scan(
			&orderResp.OrderID,
			&orderResp.CustomerID,
			&orderResp.TotalPrice,
			&orderResp.DeliveryAddress,
			&orderResp.Status,
			&courierName,
			&estimatedMinutes,
			&orderResp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if courierName.Valid {
			orderResp.CourierName = courierName.String
		}
		if estimatedMinutes.Valid {
			minutes := int(estimatedMinutes.Int64)
			orderResp.EstimatedMinutes = &minutes
		}

		orderResp.Items = make([]OrderItemResponse, 0)
		index[orderResp.OrderID] = len(orders)
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			oi.order_id,
			oi.product_id,
			oi.product_name,
			oi.quantity,
			oi.price_at_time
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.restaurant_id = ?
		ORDER BY oi.id
	`, int64(query.RestaurantID())).Rows()
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item OrderItemResponse

		err = itemRows.Scan(
			&orderID,
			&item.ProductID,
			&item.Name,
			&item.Quantity,
			&item.PriceAtTime,
		)
		if err != nil {
			return nil, err
		}

		if pos, ok := index[orderID]; ok {
			orders[pos].Items = append(orders[pos].Items, item)
		}
	}

	if err = itemRows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
