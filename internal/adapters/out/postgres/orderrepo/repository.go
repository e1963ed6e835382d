package orderrepo

import (
	"context"
	"errors"
	"strconv"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
	"courierhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.OrderID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a freshly placed order and its line items in one insert and
// writes the database-assigned identity back to the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	// Freshly placed orders get their identity from the insert; restored
	// aggregates already carry one.
	if aggregate.ID() == 0 {
		if err := aggregate.AssignID(kernel.OrderID(dto.ID)); err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists the mutable part of an existing order. Line items never
// change after placement and are left untouched.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":            dto.Status,
		"courier_id":        dto.CourierID,
		"courier_name":      dto.CourierName,
		"estimated_minutes": dto.EstimatedMinutes,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID, line items included.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", int64(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", strconv.FormatInt(int64(id), 10))
		}
		return nil, err
	}

	return toDomain(dto)
}

// AssignCourier atomically claims a READY, unassigned order for the courier.
// The conditional update is the arbiter of the acceptance race: the first
// courier's update matches the row, every later one matches nothing and is
// reported as a lost race.
func (r *GormOrderRepository) AssignCourier(
	ctx context.Context, id kernel.OrderID, courierID kernel.CourierID, courierName string,
) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}
	if err := courierID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND courier_id IS NULL", int64(id), order.Ready.String()).
		Updates(map[string]any{
			"status":       order.DriverAssigned.String(),
			"courier_id":   int64(courierID),
			"courier_name": courierName,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// GetActiveByCustomer retrieves the customer's most recent non-terminal
// order.
func (r *GormOrderRepository) GetActiveByCustomer(
	ctx context.Context, customerID kernel.CustomerID,
) (*order.Order, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ? AND status NOT IN ?", int64(customerID), terminalStatuses()).
		Order("created_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(
				"active order for customer", strconv.FormatInt(int64(customerID), 10))
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByCourier retrieves the courier's current non-terminal order.
func (r *GormOrderRepository) GetActiveByCourier(
	ctx context.Context, courierID kernel.CourierID,
) (*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("courier_id = ? AND status NOT IN ?", int64(courierID), terminalStatuses()).
		Order("created_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(
				"active order for courier", strconv.FormatInt(int64(courierID), 10))
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllReadyUnassigned retrieves orders still waiting for a courier.
func (r *GormOrderRepository) GetAllReadyUnassigned(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ? AND courier_id IS NULL", order.Ready.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func terminalStatuses() []string {
	return []string{order.Delivered.String(), order.Cancelled.String()}
}
