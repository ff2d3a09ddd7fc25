package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubItems only answers FindByIDs
type stubItems struct {
	catalog.ItemRepository
	items []catalog.Item
	err   error
	asked []uuid.UUID
}

func (s *stubItems) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	s.asked = ids
	return s.items, s.err
}

type recordingNotifier struct {
	alerts []LowStockAlert
	err    error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, alert LowStockAlert) error {
	n.alerts = append(n.alerts, alert)
	return n.err
}

func product(t *testing.T, name string, stock, minLevel int64) catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(name, catalog.ItemTypeProduct, stock)
	require.NoError(t, err)
	require.NoError(t, item.SetMinStockLevel(minLevel))
	return *item
}

func saleEvent(itemIDs ...uuid.UUID) *trade.DocumentEvent {
	e := &trade.DocumentEvent{
		Kind:        trade.KindSale,
		Number:      "INV-7",
		PartyID:     uuid.New(),
		TotalAmount: decimal.NewFromInt(500),
		PaidAmount:  decimal.NewFromInt(200),
		LineCount:   len(itemIDs),
		ItemIDs:     itemIDs,
	}
	e.Type = trade.EventType(trade.KindSale, trade.EventCreated)
	e.AggType = trade.KindSale.Label()
	e.ID = uuid.New()
	return e
}

func TestAuditHandler_Handle(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	h := NewAuditHandler(zap.New(core))
	assert.Nil(t, h.EventTypes())

	ctx, _ := logger.WithRequestID(context.Background(), zap.NewNop(), "req-9")
	ctx, _ = logger.WithActorID(ctx, zap.NewNop(), "clerk-1")

	t.Run("documents carry totals", func(t *testing.T) {
		require.NoError(t, h.Handle(ctx, saleEvent(uuid.New())))

		entries := recorded.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "audit", entries[0].Message)
		assert.Equal(t, "SaleCreated", fields["event_type"])
		assert.Equal(t, "req-9", fields["request_id"])
		assert.Equal(t, "clerk-1", fields["actor_id"])
		assert.Equal(t, "500.00", fields["total_amount"])
		assert.Equal(t, "INV-7", fields["number"])
	})

	t.Run("status changes carry both ends", func(t *testing.T) {
		o := &order.Order{Status: order.StatusManufacturing}
		o.ID = uuid.New()
		require.NoError(t, h.Handle(ctx, order.NewOrderStatusChangedEvent(o, order.StatusNew, "Started", "clerk-1")))

		fields := recorded.TakeAll()[0].ContextMap()
		assert.Equal(t, "New", fields["from"])
		assert.Equal(t, "Manufacturing", fields["to"])
		assert.Equal(t, "Started", fields["note"])
	})

	t.Run("transactions", func(t *testing.T) {
		partyID := uuid.New()
		txn, err := finance.NewTransaction(finance.TransactionTypePaymentIn, &partyID, decimal.NewFromInt(75), "", time.Time{}, finance.Unlinked())
		require.NoError(t, err)
		require.NoError(t, h.Handle(context.Background(), finance.NewTransactionRecordedEvent(txn)))

		fields := recorded.TakeAll()[0].ContextMap()
		assert.Equal(t, "payment_in", fields["type"])
		assert.Equal(t, "75.00", fields["amount"])
		assert.Equal(t, partyID.String(), fields["party_id"])
		assert.NotContains(t, fields, "actor_id")
	})
}

func TestLowStockHandler_EventTypes(t *testing.T) {
	h := NewLowStockHandler(&stubItems{}, nil)
	assert.ElementsMatch(t, []string{"SaleCreated", "SaleUpdated", "PurchaseUpdated", "PurchaseDeleted"}, h.EventTypes())
}

func TestLowStockHandler_Handle(t *testing.T) {
	ctx := context.Background()
	low := product(t, "Bolt", 3, 5)
	fine := product(t, "Nut", 50, 5)

	t.Run("alerts only on low items", func(t *testing.T) {
		core, recorded := observer.New(zapcore.WarnLevel)
		items := &stubItems{items: []catalog.Item{low, fine}}
		notifier := &recordingNotifier{}
		h := NewLowStockHandler(items, zap.New(core)).WithNotifier(notifier)

		require.NoError(t, h.Handle(ctx, saleEvent(low.ID, fine.ID)))

		assert.Equal(t, []uuid.UUID{low.ID, fine.ID}, items.asked)
		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, low.ID.String(), notifier.alerts[0].ItemID)
		assert.Equal(t, int64(3), notifier.alerts[0].CurrentStock)
		assert.Equal(t, "SaleCreated", notifier.alerts[0].Trigger)
		assert.Equal(t, 1, recorded.FilterMessage("item at or below minimum stock").Len())
	})

	t.Run("notifier failures are logged, not returned", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		h := NewLowStockHandler(&stubItems{items: []catalog.Item{low}}, zap.New(core)).
			WithNotifier(&recordingNotifier{err: errors.New("smtp down")})

		require.NoError(t, h.Handle(ctx, saleEvent(low.ID)))
		assert.Equal(t, 1, recorded.FilterMessage("failed to send low stock alert").Len())
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		h := NewLowStockHandler(&stubItems{err: errors.New("db gone")}, nil)
		err := h.Handle(ctx, saleEvent(low.ID))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INV-7")
	})

	t.Run("documents without items are skipped", func(t *testing.T) {
		items := &stubItems{}
		require.NoError(t, NewLowStockHandler(items, nil).Handle(ctx, saleEvent()))
		assert.Nil(t, items.asked)
	})

	t.Run("other events are rejected", func(t *testing.T) {
		o := &order.Order{}
		o.ID = uuid.New()
		err := NewLowStockHandler(&stubItems{}, nil).Handle(ctx, order.NewOrderCreatedEvent(o))
		assert.Error(t, err)
	})
}
