package coordinator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var clerk = shared.Actor{ID: "user-7", Name: "Ravi"}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// faultyScope wraps a real scope and lets a test swap repositories inside the transaction
type faultyScope struct {
	inner coordinator.TransactionScope
	wrap  func(coordinator.TransactionalRepositories) coordinator.TransactionalRepositories
}

func (s faultyScope) Execute(ctx context.Context, fn func(repos coordinator.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos coordinator.TransactionalRepositories) error {
		return fn(s.wrap(repos))
	})
}

type failingBalanceRepos struct {
	coordinator.TransactionalRepositories
}

func (r failingBalanceRepos) Parties() partner.PartyRepository {
	return failingParties{r.TransactionalRepositories.Parties()}
}

type failingParties struct {
	partner.PartyRepository
}

func (failingParties) ApplyBalanceDelta(context.Context, uuid.UUID, decimal.Decimal, partner.BalanceOrigin) error {
	return errors.New("injected balance failure")
}

type fixture struct {
	db        *gorm.DB
	repos     *persistence.Repositories
	publisher *recordingPublisher
	coord     *coordinator.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	publisher := &recordingPublisher{}
	return &fixture{
		db:        db,
		repos:     persistence.NewRepositories(db),
		publisher: publisher,
		coord:     coordinator.New(persistence.NewGormTransactionScope(db), publisher, zap.NewNop()),
	}
}

func (f *fixture) withFaultyBalance() *coordinator.Coordinator {
	scope := faultyScope{
		inner: persistence.NewGormTransactionScope(f.db),
		wrap: func(r coordinator.TransactionalRepositories) coordinator.TransactionalRepositories {
			return failingBalanceRepos{r}
		},
	}
	return coordinator.New(scope, f.publisher, zap.NewNop())
}

func (f *fixture) item(t *testing.T, name string, opening int64) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(name, catalog.ItemTypeProduct, opening)
	require.NoError(t, err)
	require.NoError(t, f.repos.Items().Save(context.Background(), item))
	return item
}

func (f *fixture) party(t *testing.T, name string, partyType partner.PartyType) *partner.Party {
	t.Helper()
	p, err := partner.NewParty(name, partyType, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, f.repos.Parties().Save(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	item, err := f.repos.Items().FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.CurrentStock
}

func (f *fixture) balance(t *testing.T, id uuid.UUID) *partner.Party {
	t.Helper()
	p, err := f.repos.Parties().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) linked(t *testing.T, kind trade.Kind, id uuid.UUID) []finance.Transaction {
	t.Helper()
	txs, err := f.repos.Transactions().FindByLinkedDocument(context.Background(), kind.LinkedType(), id)
	require.NoError(t, err)
	return txs
}

func draft(number string, partyID, itemID uuid.UUID, qty, rate, paid int64) trade.Draft {
	return trade.Draft{
		Number:       number,
		PartyID:      partyID,
		DocumentDate: time.Now(),
		PaidAmount:   decimal.NewFromInt(paid),
		Lines: []trade.LineInput{{
			ItemID:   itemID,
			Quantity: qty,
			Rate:     decimal.NewFromInt(rate),
		}},
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestCreatePurchase_PaidInFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Item X", 0)
	supplier := f.party(t, "Party P", partner.PartyTypeSupplier)

	doc, err := f.coord.CreateDocument(ctx, trade.KindPurchase, draft("BILL-001", supplier.ID, item.ID, 30, 100, 3000), clerk)
	require.NoError(t, err)

	assert.Equal(t, int64(30), f.stock(t, item.ID))

	p := f.balance(t, supplier.ID)
	assert.True(t, p.CurrentBalance.IsZero(), "exposure and payment cancel out")
	assert.Equal(t, partner.BalanceTypePayable, p.BalanceType)

	txs := f.linked(t, trade.KindPurchase, doc.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, finance.TransactionTypePaymentOut, txs[0].Type)
	assert.True(t, decimal.NewFromInt(3000).Equal(txs[0].Amount))
	assert.Equal(t, supplier.ID, *txs[0].PartyID)
	assert.Equal(t, "Payment for Purchase BILL-001", txs[0].Description)

	assert.Equal(t, []string{finance.EventTypeTransactionRecorded, "PurchaseCreated"}, f.publisher.types())
}

func TestDeleteSale_RestoresStockAndBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Valve", 50)
	customer := f.party(t, "Sharma & Sons", partner.PartyTypeCustomer)

	t.Run("unpaid sale", func(t *testing.T) {
		doc, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-001", customer.ID, item.ID, 10, 50, 0), clerk)
		require.NoError(t, err)
		assert.Equal(t, int64(40), f.stock(t, item.ID))
		assert.True(t, decimal.NewFromInt(500).Equal(f.balance(t, customer.ID).CurrentBalance))

		require.NoError(t, f.coord.DeleteDocument(ctx, trade.KindSale, doc.ID, clerk))

		assert.Equal(t, int64(50), f.stock(t, item.ID))
		assert.True(t, f.balance(t, customer.ID).CurrentBalance.IsZero())
		_, err = f.repos.Documents(trade.KindSale).FindByID(ctx, doc.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("partly paid sale removes its payments", func(t *testing.T) {
		doc, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-002", customer.ID, item.ID, 10, 50, 200), clerk)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(300).Equal(f.balance(t, customer.ID).CurrentBalance))
		require.Len(t, f.linked(t, trade.KindSale, doc.ID), 1)

		require.NoError(t, f.coord.DeleteDocument(ctx, trade.KindSale, doc.ID, clerk))

		assert.Equal(t, int64(50), f.stock(t, item.ID))
		assert.True(t, f.balance(t, customer.ID).CurrentBalance.IsZero())
		assert.Empty(t, f.linked(t, trade.KindSale, doc.ID))
	})

	t.Run("missing sale", func(t *testing.T) {
		err := f.coord.DeleteDocument(ctx, trade.KindSale, uuid.New(), clerk)
		assert.Equal(t, "SALE_NOT_FOUND", errorCode(t, err))
	})
}

func TestUpdateSale_ReversesThenApplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Pump", 20)
	other := f.item(t, "Hose", 20)
	customer := f.party(t, "Kumar Textiles", partner.PartyTypeCustomer)

	doc, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-100", customer.ID, item.ID, 10, 50, 100), clerk)
	require.NoError(t, err)

	revised, err := f.coord.UpdateDocument(ctx, trade.KindSale, doc.ID, draft("INV-100", customer.ID, other.ID, 4, 50, 0), doc.Version, clerk)
	require.NoError(t, err)
	assert.Equal(t, doc.Version+1, revised.Version)

	assert.Equal(t, int64(20), f.stock(t, item.ID))
	assert.Equal(t, int64(16), f.stock(t, other.ID))
	assert.True(t, decimal.NewFromInt(200).Equal(f.balance(t, customer.ID).CurrentBalance))
	assert.Empty(t, f.linked(t, trade.KindSale, doc.ID))

	t.Run("stale expected version", func(t *testing.T) {
		_, err := f.coord.UpdateDocument(ctx, trade.KindSale, doc.ID, draft("INV-100", customer.ID, item.ID, 1, 50, 0), doc.Version, clerk)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, int64(16), f.stock(t, other.ID))
	})

	t.Run("unknown party on update", func(t *testing.T) {
		_, err := f.coord.UpdateDocument(ctx, trade.KindSale, doc.ID, draft("INV-100", uuid.New(), item.ID, 1, 50, 0), 0, clerk)
		assert.Equal(t, "PARTY_NOT_FOUND", errorCode(t, err))
	})
}

func TestCreateDocument_FailureInjection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Motor", 10)
	customer := f.party(t, "Gupta Electricals", partner.PartyTypeCustomer)
	before := len(f.publisher.types())

	_, err := f.withFaultyBalance().CreateDocument(ctx, trade.KindSale, draft("INV-500", customer.ID, item.ID, 3, 100, 100), clerk)

	require.Error(t, err)
	assert.Equal(t, shared.KindConsistency, shared.KindOf(err))
	assert.Equal(t, int64(10), f.stock(t, item.ID), "stock step must roll back with the balance step")
	assert.True(t, f.balance(t, customer.ID).CurrentBalance.IsZero())

	count, err := f.repos.Documents(trade.KindSale).Count(ctx, trade.DocumentFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = f.repos.Transactions().Count(ctx, finance.TransactionFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Len(t, f.publisher.types(), before, "nothing is published for a rolled back unit")
}

func TestCreateDocument_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Gasket", 10)
	customer := f.party(t, "Iyer Stores", partner.PartyTypeCustomer)

	t.Run("unknown party", func(t *testing.T) {
		_, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-1", uuid.New(), item.ID, 1, 10, 0), clerk)
		assert.Equal(t, "PARTY_NOT_FOUND", errorCode(t, err))
		assert.Equal(t, int64(10), f.stock(t, item.ID))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-2", customer.ID, uuid.New(), 1, 10, 0), clerk)
		assert.Equal(t, "ITEM_NOT_FOUND", errorCode(t, err))
		assert.True(t, f.balance(t, customer.ID).CurrentBalance.IsZero())
	})

	t.Run("duplicate number", func(t *testing.T) {
		_, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-3", customer.ID, item.ID, 2, 10, 0), clerk)
		require.NoError(t, err)

		_, err = f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-3", customer.ID, item.ID, 2, 10, 0), clerk)
		assert.Equal(t, "DUPLICATE_DOCUMENT_NUMBER", errorCode(t, err))
		assert.Equal(t, int64(8), f.stock(t, item.ID))
		assert.True(t, decimal.NewFromInt(20).Equal(f.balance(t, customer.ID).CurrentBalance))
	})
}

func TestTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Drill", 5)
	customer := f.party(t, "Nair Hardware", partner.PartyTypeCustomer)

	sale, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-9", customer.ID, item.ID, 1, 1000, 400), clerk)
	require.NoError(t, err)

	t.Run("linked transactions cannot be deleted on their own", func(t *testing.T) {
		txs := f.linked(t, trade.KindSale, sale.ID)
		require.Len(t, txs, 1)

		err := f.coord.DeleteTransaction(ctx, txs[0].ID, clerk)
		assert.Equal(t, "LINKED_TRANSACTION", errorCode(t, err))
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("standalone payment moves and restores the balance", func(t *testing.T) {
		tx, err := f.coord.RecordTransaction(ctx, coordinator.TransactionInput{
			Type:    finance.TransactionTypePaymentIn,
			PartyID: &customer.ID,
			Amount:  decimal.NewFromInt(600),
		}, clerk)
		require.NoError(t, err)
		assert.True(t, f.balance(t, customer.ID).CurrentBalance.IsZero())

		require.NoError(t, f.coord.DeleteTransaction(ctx, tx.ID, clerk))
		assert.True(t, decimal.NewFromInt(600).Equal(f.balance(t, customer.ID).CurrentBalance))
	})

	t.Run("expenses leave balances alone", func(t *testing.T) {
		_, err := f.coord.RecordTransaction(ctx, coordinator.TransactionInput{
			Type:   finance.TransactionTypeExpense,
			Amount: decimal.NewFromInt(90),
		}, clerk)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(600).Equal(f.balance(t, customer.ID).CurrentBalance))
	})

	t.Run("missing transaction", func(t *testing.T) {
		err := f.coord.DeleteTransaction(ctx, uuid.New(), clerk)
		assert.Equal(t, "TRANSACTION_NOT_FOUND", errorCode(t, err))
	})
}

func TestOrderWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Conveyor Belt", 0)
	customer := f.party(t, "Reddy Foods", partner.PartyTypeCustomer)

	line, err := order.NewLine(item.ID, "", decimal.NewFromInt(2), "", decimal.NewFromInt(1500), nil)
	require.NoError(t, err)

	o, err := f.coord.CreateOrder(ctx, customer.ID, order.StatusNew, order.Details{
		PONumber: "PO-77",
		PODate:   time.Now(),
		Lines:    []order.Line{line},
	}, clerk)
	require.NoError(t, err)
	assert.Equal(t, "Conveyor Belt", o.Lines[0].ItemName)
	assert.Equal(t, catalog.DefaultUnit, o.Lines[0].Unit)

	_, err = f.coord.ChangeOrderStatus(ctx, o.ID, order.StatusManufacturing, "Started", clerk)
	require.NoError(t, err)

	stored, err := f.repos.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, stored.History, 2)
	assert.Equal(t, order.StatusNew, stored.History[0].Status)
	assert.Equal(t, order.NoteOrderCreated, stored.History[0].Note)
	assert.Equal(t, order.StatusManufacturing, stored.History[1].Status)
	assert.Equal(t, "Started", stored.History[1].Note)
	assert.Equal(t, clerk.ID, stored.History[1].ChangedBy)
	assert.Equal(t, int64(0), f.stock(t, item.ID), "orders never move stock")

	t.Run("deleted orders are terminal", func(t *testing.T) {
		_, err := f.coord.DeleteOrder(ctx, o.ID, clerk)
		require.NoError(t, err)

		_, err = f.coord.ChangeOrderStatus(ctx, o.ID, order.StatusDispatch, "", clerk)
		assert.Equal(t, "ORDER_DELETED", errorCode(t, err))

		stored, err := f.repos.Orders().FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Len(t, stored.History, 3)
	})

	t.Run("unknown item on an order line", func(t *testing.T) {
		ghost, err := order.NewLine(uuid.New(), "Ghost", decimal.NewFromInt(1), "PCS", decimal.NewFromInt(1), nil)
		require.NoError(t, err)
		_, err = f.coord.CreateOrder(ctx, customer.ID, "", order.Details{PONumber: "PO-78", PODate: time.Now(), Lines: []order.Line{ghost}}, clerk)
		assert.Equal(t, "ITEM_NOT_FOUND", errorCode(t, err))
	})
}

func TestLedgerConservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bolts := f.item(t, "Bolts", 100)
	nuts := f.item(t, "Nuts", 0)
	both := f.party(t, "Trade Partner", partner.PartyTypeBoth)
	customer := f.party(t, "Walk-in", partner.PartyTypeCustomer)

	p1, err := f.coord.CreateDocument(ctx, trade.KindPurchase, draft("BILL-1", both.ID, nuts.ID, 200, 3, 600), clerk)
	require.NoError(t, err)
	s1, err := f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-1", customer.ID, bolts.ID, 25, 12, 100), clerk)
	require.NoError(t, err)
	_, err = f.coord.CreateDocument(ctx, trade.KindSale, draft("INV-2", both.ID, nuts.ID, 40, 5, 0), clerk)
	require.NoError(t, err)
	_, err = f.coord.UpdateDocument(ctx, trade.KindSale, s1.ID, draft("INV-1", customer.ID, bolts.ID, 30, 12, 360), 0, clerk)
	require.NoError(t, err)
	require.NoError(t, f.coord.DeleteDocument(ctx, trade.KindPurchase, p1.ID, clerk))
	_, err = f.coord.RecordTransaction(ctx, coordinator.TransactionInput{
		Type:    finance.TransactionTypePaymentIn,
		PartyID: &both.ID,
		Amount:  decimal.NewFromInt(150),
	}, clerk)
	require.NoError(t, err)

	assert.Equal(t, int64(70), f.stock(t, bolts.ID))
	assert.Equal(t, int64(-40), f.stock(t, nuts.ID))
	assert.True(t, decimal.NewFromInt(50).Equal(f.balance(t, both.ID).CurrentBalance))
	assert.True(t, f.balance(t, customer.ID).CurrentBalance.IsZero())

	report, err := reconcile.NewService(persistence.NewGormLedgerReader(f.db), nil).Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Clean(), "stock drift %v, balance drift %v", report.StockDrift, report.BalanceDrift)
}
