package ports

import (
	"context"

	"courierhub/internal/core/domain/model/kernel"
)

// PushTarget is a courier with a registered push address, as listed by the
// user directory for offline offer delivery.
type PushTarget struct {
	CourierID   kernel.CourierID
	Name        string
	PushAddress string
}

// UserDirectory is the read-only collaborator owning participant identities
// and their push addresses. Account management is out of the coordinator's
// scope; only the lookups needed by notification fan-out live here.
type UserDirectory interface {
	// CourierPushAddress returns the stored push address for a courier, or an
	// empty string when the courier has none registered.
	CourierPushAddress(ctx context.Context, courierID kernel.CourierID) (string, error)

	// CourierName returns the display name stored for a courier. Used when an
	// acceptance arrives through the push-action path, which only carries the
	// courier id.
	CourierName(ctx context.Context, courierID kernel.CourierID) (string, error)

	// CouriersWithPushAddress lists every courier with a registered push
	// address, regardless of connection state.
	CouriersWithPushAddress(ctx context.Context) ([]PushTarget, error)
}
