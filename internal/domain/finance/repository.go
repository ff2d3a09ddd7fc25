package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// TransactionFilter defines filtering options for transaction queries
type TransactionFilter struct {
	shared.Filter
	PartyID  *uuid.UUID       // Filter by party
	Type     *TransactionType // Filter by type
	FromDate *time.Time       // Filter by transaction date range start
	ToDate   *time.Time       // Filter by transaction date range end
}

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll lists transactions matching the filter, newest first
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	// FindByLinkedDocument finds the transactions owned by a sale or purchase
	FindByLinkedDocument(ctx context.Context, docType DocumentType, docID uuid.UUID) ([]Transaction, error)

	// Create inserts a transaction
	Create(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByLinkedDocument removes every transaction owned by a document
	// and returns how many were removed
	DeleteByLinkedDocument(ctx context.Context, docType DocumentType, docID uuid.UUID) (int64, error)

	// ExistsByParty reports whether any transaction references the party
	ExistsByParty(ctx context.Context, partyID uuid.UUID) (bool, error)
}
