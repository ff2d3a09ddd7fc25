package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// DocumentFilter defines filtering options for sale and purchase queries
type DocumentFilter struct {
	shared.Filter
	PartyID       *uuid.UUID     // Filter by party
	PaymentStatus *PaymentStatus // Filter by payment status
	FromDate      *time.Time     // Filter by document date range start
	ToDate        *time.Time     // Filter by document date range end
}

// DocumentRepository persists documents of a single kind
type DocumentRepository interface {
	// Kind returns the document kind this repository serves
	Kind() Kind

	// FindByID loads a document with its lines and payment details
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindAll lists documents matching the filter (search on number)
	FindAll(ctx context.Context, filter DocumentFilter) ([]Document, error)

	// Count counts documents matching the filter
	Count(ctx context.Context, filter DocumentFilter) (int64, error)

	// Create inserts a document with its children
	Create(ctx context.Context, doc *Document) error

	// Update rewrites a document and replaces its children, guarded by the
	// expected version
	Update(ctx context.Context, doc *Document, expectedVersion int) error

	// Delete removes a document and its children
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByParty reports whether any document references the party
	ExistsByParty(ctx context.Context, partyID uuid.UUID) (bool, error)

	// ExistsByItem reports whether any line references the item
	ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error)
}
