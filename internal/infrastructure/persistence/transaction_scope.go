package persistence

import (
	"context"

	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos coordinator.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Repositories hands out ledger repositories bound to one *gorm.DB, either
// the pool or a transaction.
type Repositories struct {
	db *gorm.DB
}

// NewRepositories binds the ledger repositories to db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{db: db}
}

// Items returns the item repository
func (r *Repositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.db)
}

// Parties returns the party repository
func (r *Repositories) Parties() partner.PartyRepository {
	return NewGormPartyRepository(r.db)
}

// Orders returns the order repository
func (r *Repositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.db)
}

// Documents returns the repository for sales or purchases
func (r *Repositories) Documents(kind trade.Kind) trade.DocumentRepository {
	return NewGormDocumentRepository(r.db, kind)
}

// Transactions returns the transaction repository
func (r *Repositories) Transactions() finance.TransactionRepository {
	return NewGormTransactionRepository(r.db)
}

// Ensure GormTransactionScope implements TransactionScope
var _ coordinator.TransactionScope = (*GormTransactionScope)(nil)

// Ensure Repositories implements TransactionalRepositories
var _ coordinator.TransactionalRepositories = (*Repositories)(nil)
