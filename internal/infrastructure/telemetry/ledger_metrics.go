package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of the ledger metrics
const MeterName = "github.com/sharadhiadiga/Elint/ledger"

var (
	attrKind   = attribute.Key("kind")
	attrAction = attribute.Key("action")
	attrType   = attribute.Key("type")
	attrStatus = attribute.Key("status")
)

// LedgerMetrics turns committed domain events into counters and records
// reconciliation drift. Subscribe it to the event bus for every event type.
type LedgerMetrics struct {
	documents    metric.Int64Counter
	amounts      metric.Float64Histogram
	transactions metric.Int64Counter
	transitions  metric.Int64Counter
	registered   metric.Int64Counter
	drift        metric.Int64Gauge
}

// NewLedgerMetrics creates the instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error

	if m.documents, err = meter.Int64Counter("elint.documents",
		metric.WithDescription("Sales and purchases created, updated or deleted"),
		metric.WithUnit("{document}")); err != nil {
		return nil, fmt.Errorf("create documents counter: %w", err)
	}
	if m.amounts, err = meter.Float64Histogram("elint.document.amount",
		metric.WithDescription("Grand total of created documents"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("create amount histogram: %w", err)
	}
	if m.transactions, err = meter.Int64Counter("elint.transactions",
		metric.WithDescription("Ledger transactions recorded or deleted"),
		metric.WithUnit("{transaction}")); err != nil {
		return nil, fmt.Errorf("create transactions counter: %w", err)
	}
	if m.transitions, err = meter.Int64Counter("elint.order.transitions",
		metric.WithDescription("Order workflow transitions by target status"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, fmt.Errorf("create transitions counter: %w", err)
	}
	if m.registered, err = meter.Int64Counter("elint.masterdata.created",
		metric.WithDescription("Items, parties and orders registered"),
		metric.WithUnit("{record}")); err != nil {
		return nil, fmt.Errorf("create masterdata counter: %w", err)
	}
	if m.drift, err = meter.Int64Gauge("elint.reconcile.drift",
		metric.WithDescription("Records whose stored figure disagrees with the ledger at the last reconciliation"),
		metric.WithUnit("{record}")); err != nil {
		return nil, fmt.Errorf("create drift gauge: %w", err)
	}
	return m, nil
}

// EventTypes is empty so the bus delivers every event
func (m *LedgerMetrics) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.DocumentEvent:
		action := strings.TrimPrefix(e.EventType(), e.Kind.Label())
		m.documents.Add(ctx, 1, metric.WithAttributes(attrKind.String(string(e.Kind)), attrAction.String(action)))
		if action == string(trade.EventCreated) {
			m.amounts.Record(ctx, e.TotalAmount.InexactFloat64(), metric.WithAttributes(attrKind.String(string(e.Kind))))
		}
	case *finance.TransactionRecordedEvent:
		m.transactions.Add(ctx, 1, metric.WithAttributes(attrType.String(string(e.Type)), attrAction.String("recorded")))
	case *finance.TransactionDeletedEvent:
		m.transactions.Add(ctx, 1, metric.WithAttributes(attrType.String(string(e.Type)), attrAction.String("deleted")))
	case *order.OrderStatusChangedEvent:
		m.transitions.Add(ctx, 1, metric.WithAttributes(attrStatus.String(string(e.To))))
	default:
		if strings.HasSuffix(event.EventType(), "Created") {
			m.registered.Add(ctx, 1, metric.WithAttributes(attrKind.String(event.AggregateType())))
		}
	}
	return nil
}

// RecordDrift stores the outcome of a reconciliation pass
func (m *LedgerMetrics) RecordDrift(ctx context.Context, stockDrift, balanceDrift int) {
	m.drift.Record(ctx, int64(stockDrift), metric.WithAttributes(attrKind.String("stock")))
	m.drift.Record(ctx, int64(balanceDrift), metric.WithAttributes(attrKind.String("balance")))
}
