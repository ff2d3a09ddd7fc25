package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// OrderFilter defines filtering options for order queries
type OrderFilter struct {
	shared.Filter
	Status  *Status    // Filter by current status
	PartyID *uuid.UUID // Filter by party
}

// OrderRepository defines persistence for orders
type OrderRepository interface {
	// FindByID loads an order with its lines and history
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll lists orders, searching on po number.
	// Deleted orders are excluded unless the status filter asks for them.
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// Create inserts a new order
	Create(ctx context.Context, o *Order) error

	// Update writes the order, replacing its lines and appending new history
	// entries, guarded by the expected version
	Update(ctx context.Context, o *Order, expectedVersion int) error

	// CountByStatus counts orders per current status
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// ExistsByParty reports whether any order references the party
	ExistsByParty(ctx context.Context, partyID uuid.UUID) (bool, error)

	// ExistsByItem reports whether any order line references the item
	ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error)
}
