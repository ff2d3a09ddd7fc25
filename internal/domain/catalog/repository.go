package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// ItemFilter defines filtering options for item queries
type ItemFilter struct {
	shared.Filter
	Type     *ItemType // Filter by item type
	LowStock bool      // Only products at or below their minimum level
}

// ItemRepository defines persistence for items
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDs finds items by ID; missing IDs are absent from the result
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// FindAll lists items matching the filter (search on name and item code)
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter ItemFilter) (int64, error)

	// Save creates or updates an item. CurrentStock is written on create only.
	Save(ctx context.Context, item *Item) error

	// IncrementStock atomically adds delta to current_stock. Service items
	// are matched but left unchanged; a missing item returns shared.ErrNotFound.
	IncrementStock(ctx context.Context, id uuid.UUID, delta int64) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error
}
