// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order
// aggregates. The primary key is assigned by the database on first insert.
type OrderDTO struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	RestaurantID     int64   `gorm:"index"`
	CustomerID       int64   `gorm:"index"`
	CourierID        *int64  `gorm:"index"`
	CourierName      *string `gorm:"type:varchar(255)"`
	Status           string  `gorm:"type:varchar(32);index"`
	TotalPrice       float64
	DeliveryAddress  string `gorm:"type:varchar(512)"`
	DeliveryLat      float64
	DeliveryLng      float64
	EstimatedMinutes *int
	CreatedAt        time.Time
	Items            []OrderItemDTO `gorm:"foreignKey:OrderID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one immutable line item row, written in the same
// transaction as its order.
type OrderItemDTO struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	OrderID     int64 `gorm:"index"`
	ProductID   int64
	ProductName string `gorm:"type:varchar(255)"`
	Quantity    int
	PriceAtTime float64
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation,
// line items included.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *int64
	var courierName *string
	if id := aggregate.Courier(); id != nil {
		raw := int64(*id)
		courierID = &raw
		name := aggregate.CourierName()
		courierName = &name
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:     int64(aggregate.ID()),
			ProductID:   int64(item.ProductID()),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			PriceAtTime: item.PriceAtTime(),
		})
	}

	return OrderDTO{
		ID:               int64(aggregate.ID()),
		RestaurantID:     int64(aggregate.RestaurantID()),
		CustomerID:       int64(aggregate.CustomerID()),
		CourierID:        courierID,
		CourierName:      courierName,
		Status:           aggregate.Status().String(),
		TotalPrice:       aggregate.TotalPrice(),
		DeliveryAddress:  aggregate.DeliveryAddress(),
		DeliveryLat:      aggregate.DeliveryPoint().Lat(),
		DeliveryLng:      aggregate.DeliveryPoint().Lng(),
		EstimatedMinutes: aggregate.EstimatedMinutes(),
		CreatedAt:        aggregate.CreatedAt(),
		Items:            items,
	}
}

// toDomain converts a database DTO to an order aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLng)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewLineItem(
			kernel.ProductID(itemDTO.ProductID),
			itemDTO.ProductName,
			itemDTO.Quantity,
			itemDTO.PriceAtTime,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var courierID *kernel.CourierID
	courierName := ""
	if dto.CourierID != nil {
		id := kernel.CourierID(*dto.CourierID)
		courierID = &id
	}
	if dto.CourierName != nil {
		courierName = *dto.CourierName
	}

	return order.RestoreOrder(
		kernel.OrderID(dto.ID),
		kernel.RestaurantID(dto.RestaurantID),
		kernel.CustomerID(dto.CustomerID),
		items,
		dto.TotalPrice,
		dto.DeliveryAddress,
		point,
		status,
		courierID,
		courierName,
		dto.EstimatedMinutes,
		dto.CreatedAt,
	)
}
