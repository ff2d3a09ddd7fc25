package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newManualMeterProvider() (*sdkmetric.ManualReader, *telemetry.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumWhere(t *testing.T, rm metricdata.ResourceMetrics, name string, key, value string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	require.NotNil(t, m, name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, name)

	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func newDocumentEvent(t *testing.T, kind trade.Kind, action trade.EventAction, total string) *trade.DocumentEvent {
	t.Helper()
	e := &trade.DocumentEvent{
		Kind:        kind,
		DocumentID:  uuid.New(),
		TotalAmount: decimal.RequireFromString(total),
	}
	e.Type = trade.EventType(kind, action)
	return e
}

func TestLedgerMetrics_Handle(t *testing.T) {
	reader, mp := newManualMeterProvider()
	m, err := telemetry.NewLedgerMetrics(mp.Meter(telemetry.MeterName))
	require.NoError(t, err)
	assert.Empty(t, m.EventTypes())

	ctx := context.Background()

	require.NoError(t, m.Handle(ctx, newDocumentEvent(t, trade.KindSale, trade.EventCreated, "500")))
	require.NoError(t, m.Handle(ctx, newDocumentEvent(t, trade.KindSale, trade.EventDeleted, "500")))
	require.NoError(t, m.Handle(ctx, newDocumentEvent(t, trade.KindPurchase, trade.EventCreated, "3000")))

	txn, err := finance.NewTransaction(finance.TransactionTypeExpense, nil, decimal.NewFromInt(40), finance.PaymentModeCash, time.Time{}, finance.Unlinked())
	require.NoError(t, err)
	require.NoError(t, m.Handle(ctx, finance.NewTransactionRecordedEvent(txn)))
	require.NoError(t, m.Handle(ctx, finance.NewTransactionDeletedEvent(txn)))

	o := &order.Order{Status: order.StatusNew}
	o.ID = uuid.New()
	require.NoError(t, m.Handle(ctx, order.NewOrderStatusChangedEvent(o, order.StatusNew, "", "u1")))

	item, err := catalog.NewItem("Bolt", catalog.ItemTypeProduct, 10)
	require.NoError(t, err)
	require.NoError(t, m.Handle(ctx, catalog.NewItemCreatedEvent(item)))

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumWhere(t, rm, "elint.documents", "kind", "sale"))
	assert.Equal(t, int64(1), sumWhere(t, rm, "elint.documents", "kind", "purchase"))
	assert.Equal(t, int64(2), sumWhere(t, rm, "elint.documents", "action", "Created"))
	assert.Equal(t, int64(1), sumWhere(t, rm, "elint.transactions", "action", "recorded"))
	assert.Equal(t, int64(1), sumWhere(t, rm, "elint.transactions", "action", "deleted"))
	assert.Equal(t, int64(1), sumWhere(t, rm, "elint.order.transitions", "status", string(order.StatusNew)))
	assert.Equal(t, int64(1), sumWhere(t, rm, "elint.masterdata.created", "kind", catalog.AggregateTypeItem))

	hist := findMetric(rm, "elint.document.amount")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range data.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestLedgerMetrics_RecordDrift(t *testing.T) {
	reader, mp := newManualMeterProvider()
	m, err := telemetry.NewLedgerMetrics(mp.Meter(telemetry.MeterName))
	require.NoError(t, err)

	m.RecordDrift(context.Background(), 2, 0)

	rm := collect(t, reader)
	gauge := findMetric(rm, "elint.reconcile.drift")
	require.NotNil(t, gauge)
	data, ok := gauge.Data.(metricdata.Gauge[int64])
	require.True(t, ok)

	byKind := map[string]int64{}
	for _, dp := range data.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("kind"))
		byKind[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"stock": 2, "balance": 0}, byKind)
}
