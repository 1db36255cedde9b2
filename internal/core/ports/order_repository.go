package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is always loaded and saved whole: header, items, escrow records.
type OrderRepository interface {
	// Add persists a new order with all its items and escrow records.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changed items of an existing order together with their
	// escrow records, delivery proofs and transitions.
	//
	// Every changed item is written with an optimistic version check. If another
	// transaction changed the item since it was loaded, Update fails with a
	// StateConflictError and nothing of the order is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its id.
	// Returns errs.ObjectNotFoundError if there is no such order.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByItemID retrieves the order that contains the given item.
	GetByItemID(ctx context.Context, itemID kernel.UUID) (*order.Order, error)

	// GetByEscrowID retrieves the order whose item owns the given escrow record.
	// Administrators address escrow records by this id ("transaction id").
	GetByEscrowID(ctx context.Context, escrowID kernel.UUID) (*order.Order, error)
}
