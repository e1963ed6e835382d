// Package commands contains the write-side use cases of the order
// coordinator. Each command is an immutable request object created through
// a validating constructor, and each handler drives one lifecycle
// transition inside a unit of work.
//
// Handlers do not talk to connected clients directly. They return the set
// of notifications the transition produced, and the calling adapter hands
// those to the dispatcher after the transaction has committed.
package commands

import (
	"context"

	"courierhub/internal/core/ports"
)

// TxManager controls the transaction an order unit of work runs in.
type TxManager interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// OrderUoW is the unit of work used by the lifecycle handlers. The
// repository it exposes participates in the managed transaction.
type OrderUoW interface {
	TxManager
	OrderRepository() ports.OrderRepository
}

// OrderUoWFactory creates a fresh unit of work per handled command.
type OrderUoWFactory interface {
	Create() OrderUoW
}
