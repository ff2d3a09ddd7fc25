package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"go.uber.org/zap"
)

// Service applies signed stock deltas to items.
// It only touches current stock; exactly-once application belongs to the caller.
type Service struct {
	items  catalog.ItemRepository
	logger *zap.Logger
}

// NewService creates a stock adjustment service over the given repository
func NewService(items catalog.ItemRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{items: items, logger: logger}
}

// ApplyStockDelta adds quantity to the item's current stock in one atomic
// statement. Service items are left unchanged. A missing item is an error.
func (s *Service) ApplyStockDelta(ctx context.Context, itemID uuid.UUID, quantity int64) error {
	if quantity == 0 {
		return nil
	}
	if err := s.items.IncrementStock(ctx, itemID, quantity); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewNotFoundError("ITEM_NOT_FOUND", fmt.Sprintf("Item %s not found", itemID))
		}
		return fmt.Errorf("increment stock of item %s: %w", itemID, err)
	}
	s.logger.Debug("stock adjusted",
		zap.String("item_id", itemID.String()),
		zap.Int64("delta", quantity),
	)
	return nil
}

// ReverseStockDelta undoes a previously applied delta.
// Pass the original quantity, not the new one.
func (s *Service) ReverseStockDelta(ctx context.Context, itemID uuid.UUID, originalQuantity int64) error {
	return s.ApplyStockDelta(ctx, itemID, -originalQuantity)
}

// ApplyDocumentLines applies every line in order with the sign of the
// document kind: purchases add stock, sales remove it.
func (s *Service) ApplyDocumentLines(ctx context.Context, kind trade.Kind, lines []trade.Line) error {
	for _, l := range lines {
		if err := s.ApplyStockDelta(ctx, l.ItemID, kind.StockSign()*l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ReverseDocumentLines undoes ApplyDocumentLines for the same lines
func (s *Service) ReverseDocumentLines(ctx context.Context, kind trade.Kind, lines []trade.Line) error {
	for _, l := range lines {
		if err := s.ReverseStockDelta(ctx, l.ItemID, kind.StockSign()*l.Quantity); err != nil {
			return err
		}
	}
	return nil
}
