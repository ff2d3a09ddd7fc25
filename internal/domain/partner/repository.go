package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartyFilter defines filtering options for party queries
type PartyFilter struct {
	shared.Filter
	Type *PartyType // Filter by party type; "both" parties match customer and supplier
}

// PartyRepository defines persistence for parties
type PartyRepository interface {
	// FindByID finds a party by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)

	// FindAll lists parties matching the filter (search on name and phone)
	FindAll(ctx context.Context, filter PartyFilter) ([]Party, error)

	// Count counts parties matching the filter
	Count(ctx context.Context, filter PartyFilter) (int64, error)

	// Save creates or updates a party. Balances are written on create only.
	Save(ctx context.Context, party *Party) error

	// ApplyBalanceDelta adds delta to current_balance and rederives balance_type
	// in a single statement. A missing party returns shared.ErrNotFound.
	ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal, origin BalanceOrigin) error

	// Delete removes a party
	Delete(ctx context.Context, id uuid.UUID) error
}
