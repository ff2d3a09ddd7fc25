package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocument(t *testing.T, kind trade.Kind, number string, partyID, itemID uuid.UUID, qty int64, paid int64) *trade.Document {
	t.Helper()
	doc, err := trade.NewDocument(kind, trade.Draft{
		Number:       number,
		PartyID:      partyID,
		DocumentDate: time.Now(),
		PaidAmount:   decimal.NewFromInt(paid),
		Lines: []trade.LineInput{{
			ItemID:   itemID,
			Quantity: qty,
			Rate:     decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)
	return doc
}

func TestGormDocumentRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	sales := NewGormSaleRepository(db)
	purchases := NewGormPurchaseRepository(db)
	ctx := context.Background()

	partyID, itemID := uuid.New(), uuid.New()
	sale := newDocument(t, trade.KindSale, "INV-1", partyID, itemID, 5, 200)
	require.NoError(t, sales.Create(ctx, sale))

	t.Run("loads lines and payment details", func(t *testing.T) {
		got, err := sales.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.KindSale, got.Kind)
		assert.Equal(t, "INV-1", got.Number)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, int64(5), got.Lines[0].Quantity)
		assert.True(t, decimal.NewFromInt(500).Equal(got.TotalAmount))
		assert.True(t, decimal.NewFromInt(300).Equal(got.BalanceAmount))
		assert.Equal(t, trade.PaymentStatusPartial, got.PaymentStatus)
		require.Len(t, got.PaymentDetails, 1)
		assert.Equal(t, finance.PaymentModeCash, got.PaymentDetails[0].PaymentMode)
	})

	t.Run("repositories are scoped by kind", func(t *testing.T) {
		_, err := purchases.FindByID(ctx, sale.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("numbers are unique per kind", func(t *testing.T) {
		dup := newDocument(t, trade.KindSale, "INV-1", partyID, itemID, 1, 0)
		err := sales.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))

		same := newDocument(t, trade.KindPurchase, "INV-1", partyID, itemID, 1, 0)
		assert.NoError(t, purchases.Create(ctx, same))
	})

	t.Run("rejects a document of the other kind", func(t *testing.T) {
		other := newDocument(t, trade.KindPurchase, "BILL-9", partyID, itemID, 1, 0)
		assert.Error(t, sales.Create(ctx, other))
	})
}

func TestGormDocumentRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	partyID := uuid.New()
	doc := newDocument(t, trade.KindPurchase, "BILL-1", partyID, uuid.New(), 30, 3000)
	require.NoError(t, repo.Create(ctx, doc))

	t.Run("replaces lines and payments", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		expected := loaded.Version

		newItemID := uuid.New()
		require.NoError(t, loaded.Revise(trade.Draft{
			Number:  "BILL-1",
			PartyID: partyID,
			Lines: []trade.LineInput{
				{ItemID: newItemID, Quantity: 2, Rate: decimal.NewFromInt(50)},
				{ItemID: newItemID, Quantity: 3, Rate: decimal.NewFromInt(50)},
			},
		}))
		require.NoError(t, repo.Update(ctx, loaded, expected))

		got, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, expected+1, got.Version)
		require.Len(t, got.Lines, 2)
		assert.Equal(t, int64(2), got.Lines[0].Quantity)
		assert.Empty(t, got.PaymentDetails)
		assert.Equal(t, trade.PaymentStatusUnpaid, got.PaymentStatus)

		found, err := repo.ExistsByItem(ctx, newItemID)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("stale version", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		err = repo.Update(ctx, loaded, loaded.Version-1)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormDocumentRepository_DeleteAndQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	partyID, itemID := uuid.New(), uuid.New()
	first := newDocument(t, trade.KindSale, "INV-10", partyID, itemID, 1, 100)
	second := newDocument(t, trade.KindSale, "INV-11", uuid.New(), uuid.New(), 1, 0)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("filters", func(t *testing.T) {
		unpaid := trade.PaymentStatusUnpaid
		docs, err := repo.FindAll(ctx, trade.DocumentFilter{Filter: shared.DefaultFilter(), PaymentStatus: &unpaid})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "INV-11", docs[0].Number)

		count, err := repo.Count(ctx, trade.DocumentFilter{Filter: shared.DefaultFilter(), PartyID: &partyID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete removes the document and its children", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))

		_, err := repo.FindByID(ctx, first.ID)
		assert.Equal(t, shared.ErrNotFound, err)

		found, err := repo.ExistsByItem(ctx, itemID)
		require.NoError(t, err)
		assert.False(t, found)

		found, err = repo.ExistsByParty(ctx, partyID)
		require.NoError(t, err)
		assert.False(t, found)

		assert.Equal(t, shared.ErrNotFound, repo.Delete(ctx, first.ID))
	})
}
