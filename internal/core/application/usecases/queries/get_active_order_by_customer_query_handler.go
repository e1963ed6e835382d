package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

// GetActiveOrderByCustomerQueryHandler reads the customer's most recent
// non-terminal order from the database.
type GetActiveOrderByCustomerQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrderByCustomerQueryHandler creates a handler for customer
// resume queries. Requires a GORM database connection.
func NewGetActiveOrderByCustomerQueryHandler(db *gorm.DB) GetActiveOrderByCustomerQueryHandler {
	return GetActiveOrderByCustomerQueryHandler{db: db}
}

// Handle executes the query. Returns nil without error when the customer
// has no in-flight order; resumption simply sends nothing in that case.
func (h GetActiveOrderByCustomerQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrderByCustomerQuery,
) (*OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	row := h.db.WithContext(ctx).Raw(`
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
		WHERE customer_id = ?
		  AND status NOT IN ('DELIVERED', 'CANCELLED')
		ORDER BY created_at DESC
		LIMIT 1
	`, int64(query.CustomerID())).Row()

	var orderResp OrderResponse
	var courierName sql.NullString
	var estimatedMinutes sql.NullInt64

	err := row.Scan(
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if courierName.Valid {
		orderResp.CourierName = courierName.String
	}
	if estimatedMinutes.Valid {
		minutes := int(estimatedMinutes.Int64)
		orderResp.EstimatedMinutes = &minutes
	}

	items, err := loadOrderItems(ctx, h.db, orderResp.OrderID)
	if err != nil {
		return nil, err
	}
	orderResp.Items = items

	return &orderResp, nil
}

// loadOrderItems reads the line items of one order, shared by the resume
// query handlers.
func loadOrderItems(ctx context.Context, db *gorm.DB, orderID int64) ([]OrderItemResponse, error) {
	items := make([]OrderItemResponse, 0)

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			product_name,
			quantity,
			price_at_time
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemResponse
		err = rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.PriceAtTime)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
