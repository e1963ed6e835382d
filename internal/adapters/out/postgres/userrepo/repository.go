package userrepo

import (
	"context"
	"errors"
	"strconv"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/ports"
	"courierhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserDirectory implements ports.UserDirectory using GORM.
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory creates a new GORM user directory.
func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// CourierPushAddress returns the courier's stored push address, or an empty
// string when none is registered.
func (d *GormUserDirectory) CourierPushAddress(
	ctx context.Context, courierID kernel.CourierID,
) (string, error) {
	if err := courierID.Validate(); err != nil {
		return "", err
	}

	var dto UserDTO
	err := d.db.WithContext(ctx).
		First(&dto, "id = ? AND role = ?", int64(courierID), RoleCourier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("courier", strconv.FormatInt(int64(courierID), 10))
		}
		return "", err
	}

	if dto.PushToken == nil {
		return "", nil
	}
	return *dto.PushToken, nil
}

// CourierName returns the courier's stored display name.
func (d *GormUserDirectory) CourierName(
	ctx context.Context, courierID kernel.CourierID,
) (string, error) {
	if err := courierID.Validate(); err != nil {
		return "", err
	}

	var dto UserDTO
	err := d.db.WithContext(ctx).
		First(&dto, "id = ? AND role = ?", int64(courierID), RoleCourier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("courier", strconv.FormatInt(int64(courierID), 10))
		}
		return "", err
	}

	return dto.Name, nil
}

// CouriersWithPushAddress lists every courier that registered a push
// address.
func (d *GormUserDirectory) CouriersWithPushAddress(
	ctx context.Context,
) ([]ports.PushTarget, error) {
	var dtos []UserDTO
	err := d.db.WithContext(ctx).
		Where("role = ? AND push_token IS NOT NULL AND push_token <> ''", RoleCourier).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	targets := make([]ports.PushTarget, 0, len(dtos))
	for _, dto := range dtos {
		targets = append(targets, ports.PushTarget{
			CourierID:   kernel.CourierID(dto.ID),
			Name:        dto.Name,
			PushAddress: *dto.PushToken,
		})
	}

	return targets, nil
}
