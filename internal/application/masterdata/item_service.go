package masterdata

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemService handles item master data. Stock levels are owned by the
// stock adjustment service and are never written here after creation.
type ItemService struct {
	items     catalog.ItemRepository
	scope     coordinator.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewItemService creates a new ItemService. publisher may be nil.
func NewItemService(items catalog.ItemRepository, scope coordinator.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{items: items, scope: scope, publisher: publisher, logger: logger}
}

// Create creates a new item with its opening stock
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	item, err := catalog.NewItem(req.Name, catalog.ItemType(req.Type), req.OpeningStock)
	if err != nil {
		return nil, err
	}
	item.SetDetails(req.ItemCode, req.Category, req.Unit, req.HSNCode, req.Description)
	if err := item.SetPricing(orZero(req.SalePrice), orZero(req.PurchasePrice), orZero(req.TaxRate)); err != nil {
		return nil, err
	}
	if err := item.SetMinStockLevel(req.MinStockLevel); err != nil {
		return nil, err
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, item)

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.find(ctx, s.items, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves a page of items
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) (shared.Paginated[ItemResponse], error) {
	domainFilter := catalog.ItemFilter{
		Filter:   listFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		LowStock: filter.LowStock,
	}
	if filter.Type != "" {
		t := catalog.ItemType(filter.Type)
		domainFilter.Type = &t
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	items, err := s.items.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ItemResponse]{}, err
	}
	total, err := s.items.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ItemResponse]{}, err
	}

	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update applies the non-nil fields of req
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.find(ctx, s.items, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := item.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	item.SetDetails(
		pick(req.ItemCode, item.ItemCode),
		pick(req.Category, item.Category),
		pick(req.Unit, item.Unit),
		pick(req.HSNCode, item.HSNCode),
		pick(req.Description, item.Description),
	)
	if req.SalePrice != nil || req.PurchasePrice != nil || req.TaxRate != nil {
		if err := item.SetPricing(
			pickDecimal(req.SalePrice, item.SalePrice),
			pickDecimal(req.PurchasePrice, item.PurchasePrice),
			pickDecimal(req.TaxRate, item.TaxRate),
		); err != nil {
			return nil, err
		}
	}
	if req.MinStockLevel != nil {
		if err := item.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Delete removes an item that no sale, purchase or order references
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos coordinator.TransactionalRepositories) error {
		item, err := s.find(ctx, repos.Items(), id)
		if err != nil {
			return err
		}

		checks := []struct {
			what   string
			exists func(context.Context, uuid.UUID) (bool, error)
		}{
			{"sales", repos.Documents(trade.KindSale).ExistsByItem},
			{"purchases", repos.Documents(trade.KindPurchase).ExistsByItem},
			{"orders", repos.Orders().ExistsByItem},
		}
		for _, c := range checks {
			used, err := c.exists(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("check item usage in %s: %w", c.what, err)
			}
			if used {
				return shared.NewConflictError("IN_USE", fmt.Sprintf("Item %q is used by %s and cannot be deleted", item.Name, c.what))
			}
		}

		if err := repos.Items().Delete(ctx, item.ID); err != nil {
			return err
		}
		s.logger.Info("item deleted", zap.String("item_id", item.ID.String()))
		return nil
	})
}

func (s *ItemService) find(ctx context.Context, items catalog.ItemRepository, id uuid.UUID) (*catalog.Item, error) {
	item, err := items.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("ITEM_NOT_FOUND", fmt.Sprintf("Item %s not found", id))
		}
		return nil, err
	}
	return item, nil
}

func publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	events := agg.PendingEvents()
	agg.ClearEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func pick(v *string, current string) string {
	if v == nil {
		return current
	}
	return *v
}

func pickDecimal(v *decimal.Decimal, current decimal.Decimal) decimal.Decimal {
	if v == nil {
		return current
	}
	return *v
}
