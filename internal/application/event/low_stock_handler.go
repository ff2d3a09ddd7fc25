package event

import (
	"context"
	"fmt"

	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"go.uber.org/zap"
)

// LowStockAlert describes a product at or below its minimum level
type LowStockAlert struct {
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	CurrentStock  int64  `json:"current_stock"`
	MinStockLevel int64  `json:"min_stock_level"`
	Trigger       string `json:"trigger"`
}

// LowStockNotifier delivers alerts. Implementations may push to any channel.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, alert LowStockAlert) error
}

// LowStockHandler checks the items of every document that lowered stock
type LowStockHandler struct {
	items    catalog.ItemRepository
	notifier LowStockNotifier
	logger   *zap.Logger
}

// NewLowStockHandler creates a handler reading current stock from items
func NewLowStockHandler(items catalog.ItemRepository, logger *zap.Logger) *LowStockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockHandler{items: items, logger: logger}
}

// WithNotifier sets where alerts are sent besides the log
func (h *LowStockHandler) WithNotifier(n LowStockNotifier) *LowStockHandler {
	h.notifier = n
	return h
}

// EventTypes lists the events after which stock may have dropped
func (h *LowStockHandler) EventTypes() []string {
	return []string{
		trade.EventType(trade.KindSale, trade.EventCreated),
		trade.EventType(trade.KindSale, trade.EventUpdated),
		trade.EventType(trade.KindPurchase, trade.EventUpdated),
		trade.EventType(trade.KindPurchase, trade.EventDeleted),
	}
}

// Handle loads the document's items and alerts on each low one
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	doc, ok := event.(*trade.DocumentEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	if len(doc.ItemIDs) == 0 {
		return nil
	}

	items, err := h.items.FindByIDs(ctx, doc.ItemIDs)
	if err != nil {
		return fmt.Errorf("load items for %s %s: %w", doc.Kind, doc.Number, err)
	}

	for i := range items {
		item := &items[i]
		if !item.IsLowStock() {
			continue
		}
		alert := LowStockAlert{
			ItemID:        item.ID.String(),
			Name:          item.Name,
			CurrentStock:  item.CurrentStock,
			MinStockLevel: item.MinStockLevel,
			Trigger:       doc.EventType(),
		}
		h.logger.Warn("item at or below minimum stock",
			zap.String("item_id", alert.ItemID),
			zap.String("name", alert.Name),
			zap.Int64("current_stock", alert.CurrentStock),
			zap.Int64("min_stock_level", alert.MinStockLevel),
			zap.String("trigger", alert.Trigger),
		)
		if h.notifier == nil {
			continue
		}
		if err := h.notifier.NotifyLowStock(ctx, alert); err != nil {
			h.logger.Error("failed to send low stock alert", zap.String("item_id", alert.ItemID), zap.Error(err))
		}
	}
	return nil
}
