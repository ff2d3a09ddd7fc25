package masterdata

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, filter catalog.ItemFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) IncrementStock(ctx context.Context, id uuid.UUID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a product with opening stock", func(t *testing.T) {
		repo := new(MockItemRepository)
		publisher := &recordingPublisher{}
		svc := NewItemService(repo, nil, publisher, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Item")).Return(nil)

		price := decimal.NewFromInt(250)
		resp, err := svc.Create(ctx, CreateItemRequest{
			Name:          "  Steel Rod ",
			ItemCode:      "SR-10",
			OpeningStock:  40,
			MinStockLevel: 50,
			SalePrice:     &price,
		})

		require.NoError(t, err)
		assert.Equal(t, "Steel Rod", resp.Name)
		assert.Equal(t, "product", resp.Type)
		assert.Equal(t, catalog.DefaultUnit, resp.Unit)
		assert.Equal(t, int64(40), resp.CurrentStock)
		assert.True(t, resp.LowStock)
		assert.True(t, price.Equal(resp.SalePrice))
		require.Len(t, publisher.events, 1)
		assert.Equal(t, catalog.EventTypeItemCreated, publisher.events[0].EventType())
		repo.AssertExpectations(t)
	})

	t.Run("service items carry no stock", func(t *testing.T) {
		repo := new(MockItemRepository)
		svc := NewItemService(repo, nil, nil, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Item")).Return(nil)

		resp, err := svc.Create(ctx, CreateItemRequest{Name: "Installation", Type: "service", OpeningStock: 9})

		require.NoError(t, err)
		assert.Zero(t, resp.OpeningStock)
		assert.Zero(t, resp.CurrentStock)
	})

	t.Run("negative price is rejected before saving", func(t *testing.T) {
		repo := new(MockItemRepository)
		svc := NewItemService(repo, nil, nil, nil)
		price := decimal.NewFromInt(-1)

		_, err := svc.Create(ctx, CreateItemRequest{Name: "Bad", PurchasePrice: &price})

		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate code from the store is returned as is", func(t *testing.T) {
		repo := new(MockItemRepository)
		svc := NewItemService(repo, nil, nil, nil)
		dup := shared.NewConflictError("DUPLICATE_ITEM_CODE", "Item code already exists")
		repo.On("Save", ctx, mock.Anything).Return(dup)

		_, err := svc.Create(ctx, CreateItemRequest{Name: "Rod", ItemCode: "SR-10"})

		assert.ErrorIs(t, err, dup)
	})
}

func TestItemService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	svc := NewItemService(repo, nil, nil, nil)

	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, missing)

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ITEM_NOT_FOUND", de.Code)
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	svc := NewItemService(repo, nil, nil, nil)

	item, err := catalog.NewItem("Pipe", catalog.ItemTypeProduct, 12)
	require.NoError(t, err)
	item.CurrentStock = 7
	item.SetDetails("P-1", "Plumbing", "MTR", "7304", "")
	require.NoError(t, item.SetPricing(decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.NewFromInt(18)))

	repo.On("FindByID", ctx, item.ID).Return(item, nil)
	repo.On("Save", ctx, item).Return(nil)

	name := "PVC Pipe"
	sale := decimal.NewFromInt(12)
	resp, err := svc.Update(ctx, item.ID, UpdateItemRequest{Name: &name, SalePrice: &sale})

	require.NoError(t, err)
	assert.Equal(t, "PVC Pipe", resp.Name)
	assert.Equal(t, "P-1", resp.ItemCode)
	assert.Equal(t, "MTR", resp.Unit)
	assert.True(t, sale.Equal(resp.SalePrice))
	assert.True(t, decimal.NewFromInt(8).Equal(resp.PurchasePrice))
	assert.True(t, decimal.NewFromInt(18).Equal(resp.TaxRate))
	assert.Equal(t, int64(7), resp.CurrentStock, "updates never touch current stock")
	repo.AssertExpectations(t)
}

func TestItemService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	svc := NewItemService(repo, nil, nil, nil)

	a, _ := catalog.NewItem("Alpha", catalog.ItemTypeProduct, 1)
	b, _ := catalog.NewItem("Beta", catalog.ItemTypeProduct, 2)

	matches := mock.MatchedBy(func(f catalog.ItemFilter) bool {
		return f.Page == 2 && f.PageSize == 2 && f.Type != nil && *f.Type == catalog.ItemTypeProduct &&
			f.Filters["category"] == "Tools" && f.Search == "a"
	})
	repo.On("FindAll", ctx, matches).Return([]catalog.Item{*a, *b}, nil)
	repo.On("Count", ctx, matches).Return(int64(5), nil)

	page, err := svc.List(ctx, ItemListFilter{Search: "a", Type: "product", Category: "Tools", Page: 2, PageSize: 2})

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "Alpha", page.Items[0].Name)
}
