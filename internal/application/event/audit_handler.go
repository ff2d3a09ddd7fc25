// Package event holds the subscribers that react to committed ledger changes.
package event

import (
	"context"

	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditHandler writes one structured "audit" entry per committed event,
// stamped with the request and actor that caused it
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates an audit handler writing to log
func NewAuditHandler(log *zap.Logger) *AuditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditHandler{logger: log.Named("audit")}
}

// EventTypes returns nil: every event is audited
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	if id := logger.GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := logger.GetActorID(ctx); id != "" {
		fields = append(fields, zap.String("actor_id", id))
	}
	fields = append(fields, details(event)...)

	h.logger.Info("audit", fields...)
	return nil
}

func details(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *trade.DocumentEvent:
		return []zap.Field{
			zap.String("number", e.Number),
			zap.String("party_id", e.PartyID.String()),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
			zap.String("paid_amount", e.PaidAmount.StringFixed(2)),
			zap.Int("line_count", e.LineCount),
		}
	case *finance.TransactionRecordedEvent:
		f := []zap.Field{
			zap.String("type", string(e.Type)),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.Bool("linked", e.Linked),
		}
		if e.PartyID != nil {
			f = append(f, zap.String("party_id", e.PartyID.String()))
		}
		return f
	case *finance.TransactionDeletedEvent:
		return []zap.Field{
			zap.String("type", string(e.Type)),
			zap.String("amount", e.Amount.StringFixed(2)),
		}
	case *order.OrderStatusChangedEvent:
		return []zap.Field{
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)),
			zap.String("note", e.Note),
			zap.String("changed_by", e.ChangedBy),
		}
	}
	return nil
}
