package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocuments struct {
	trade.DocumentRepository
	docs   []trade.Document
	total  int64
	err    error
	filter trade.DocumentFilter
}

func (s *stubDocuments) FindByID(_ context.Context, id uuid.UUID) (*trade.Document, error) {
	for i := range s.docs {
		if s.docs[i].ID == id {
			return &s.docs[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubDocuments) FindAll(_ context.Context, f trade.DocumentFilter) ([]trade.Document, error) {
	s.filter = f
	return s.docs, s.err
}

func (s *stubDocuments) Count(context.Context, trade.DocumentFilter) (int64, error) {
	return s.total, nil
}

type stubRepos struct {
	byKind map[trade.Kind]*stubDocuments
}

func (r stubRepos) Documents(kind trade.Kind) trade.DocumentRepository {
	return r.byKind[kind]
}

type stubTransactions struct {
	finance.TransactionRepository
	txs    []finance.Transaction
	filter finance.TransactionFilter
}

func (s *stubTransactions) FindByID(context.Context, uuid.UUID) (*finance.Transaction, error) {
	return nil, shared.ErrNotFound
}

func (s *stubTransactions) FindAll(_ context.Context, f finance.TransactionFilter) ([]finance.Transaction, error) {
	s.filter = f
	return s.txs, nil
}

func (s *stubTransactions) Count(context.Context, finance.TransactionFilter) (int64, error) {
	return int64(len(s.txs)), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func sampleRequest() DocumentRequest {
	return DocumentRequest{
		Number:     "INV-1",
		PartyID:    uuid.New(),
		PaidAmount: ptr(dec("100")),
		Lines: []DocumentLineRequest{{
			ItemID:        uuid.New(),
			Quantity:      2,
			Rate:          dec("250"),
			DiscountType:  "percentage",
			DiscountValue: ptr(dec("10")),
			TaxRate:       ptr(dec("18")),
		}},
		PaymentDetails: []PaymentDetailRequest{{PaymentMode: "upi", Amount: dec("100")}},
	}
}

func TestDocumentRequest_ToDraft(t *testing.T) {
	req := sampleRequest()
	d := req.ToDraft()

	assert.Equal(t, "INV-1", d.Number)
	assert.False(t, d.DocumentDate.IsZero(), "document date defaults to now")
	assert.True(t, d.RoundOff.IsZero())
	assert.True(t, d.PaidAmount.Equal(dec("100")))
	require.Len(t, d.Lines, 1)
	assert.Equal(t, trade.DiscountPercentage, d.Lines[0].DiscountType)
	assert.True(t, d.Lines[0].TaxRate.Equal(dec("18")))
	require.Len(t, d.PaymentDetails, 1)
	assert.Equal(t, finance.PaymentModeUPI, d.PaymentDetails[0].PaymentMode)

	doc, err := trade.NewDocument(trade.KindSale, d)
	require.NoError(t, err)
	resp := ToDocumentResponse(doc)
	assert.Equal(t, "sale", resp.Kind)
	assert.Equal(t, "partial", resp.PaymentStatus)
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].Amount.Equal(dec("531")), resp.Lines[0].Amount.String())
	assert.True(t, resp.BalanceAmount.Equal(dec("431")), resp.BalanceAmount.String())
}

func TestOrderDetailsRequest_ToDetails(t *testing.T) {
	req := OrderDetailsRequest{
		PONumber: "PO-9",
		Priority: "High",
		Lines: []OrderLineRequest{
			{ItemID: uuid.New(), ItemName: "Valve", Quantity: dec("2.5"), Rate: dec("40")},
		},
	}
	d, err := req.ToDetails()
	require.NoError(t, err)
	assert.Equal(t, order.PriorityHigh, d.Priority)
	require.Len(t, d.Lines, 1)
	assert.True(t, d.Lines[0].Amount.Equal(dec("100")))

	req.Lines[0].Quantity = decimal.Zero
	_, err = req.ToDetails()
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestOrderListFilter_ToDomain(t *testing.T) {
	partyID := uuid.New()
	f := OrderListFilter{Status: "Dispatch", PartyID: partyID.String(), PageSize: 500}.ToDomain()
	require.NotNil(t, f.Status)
	assert.Equal(t, order.StatusDispatch, *f.Status)
	assert.Equal(t, partyID, *f.PartyID)
	assert.Equal(t, 100, f.PageSize)

	f = OrderListFilter{PartyID: "not-a-uuid"}.ToDomain()
	assert.Nil(t, f.PartyID)
	assert.Nil(t, f.Status)
}

func TestQueryService_Documents(t *testing.T) {
	ctx := context.Background()
	doc, err := trade.NewDocument(trade.KindPurchase, sampleRequest().ToDraft())
	require.NoError(t, err)

	purchases := &stubDocuments{docs: []trade.Document{*doc}, total: 21}
	svc := NewQueryService(stubRepos{byKind: map[trade.Kind]*stubDocuments{
		trade.KindPurchase: purchases,
		trade.KindSale:     {},
	}}, &stubTransactions{})

	t.Run("get", func(t *testing.T) {
		got, err := svc.GetDocument(ctx, trade.KindPurchase, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-1", got.Number)
	})

	t.Run("missing sale maps to a coded not found", func(t *testing.T) {
		_, err := svc.GetDocument(ctx, trade.KindSale, uuid.New())
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "SALE_NOT_FOUND", de.Code)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("list", func(t *testing.T) {
		page, err := svc.ListDocuments(ctx, trade.KindPurchase, DocumentListFilter{PaymentStatus: "partial", PageSize: 20})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(21), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.NotNil(t, purchases.filter.PaymentStatus)
		assert.Equal(t, trade.PaymentStatusPartial, *purchases.filter.PaymentStatus)
	})

	t.Run("list error", func(t *testing.T) {
		purchases.err = errors.New("db down")
		_, err := svc.ListDocuments(ctx, trade.KindPurchase, DocumentListFilter{})
		assert.EqualError(t, err, "db down")
	})
}

func TestQueryService_Transactions(t *testing.T) {
	ctx := context.Background()
	partyID := uuid.New()
	txn, err := finance.NewTransaction(finance.TransactionTypePaymentIn, &partyID, dec("50"), finance.PaymentModeCash, time.Now(), finance.Unlinked())
	require.NoError(t, err)

	txs := &stubTransactions{txs: []finance.Transaction{*txn}}
	svc := NewQueryService(stubRepos{}, txs)

	page, err := svc.ListTransactions(ctx, TransactionListFilter{Type: "payment_in"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "payment_in", page.Items[0].Type)
	assert.Equal(t, "none", page.Items[0].Linked.DocumentType)
	assert.Equal(t, "transaction_date", txs.filter.OrderBy)
	require.NotNil(t, txs.filter.Type)

	_, err = svc.GetTransaction(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}
