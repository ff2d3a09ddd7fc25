package coordinator

import (
	"context"

	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
)

// TransactionScope runs a unit of work atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the ledger repositories bound to one
// transaction. Every repository returned shares the same transaction.
type TransactionalRepositories interface {
	Items() catalog.ItemRepository
	Parties() partner.PartyRepository
	Orders() order.OrderRepository
	Documents(kind trade.Kind) trade.DocumentRepository
	Transactions() finance.TransactionRepository
}
