package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newItem(t *testing.T, name string, itemType catalog.ItemType, opening int64) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(name, itemType, opening)
	require.NoError(t, err)
	return item
}

func TestGormItemRepository_FindByID_SQL(t *testing.T) {
	t.Run("returns ErrNotFound for missing item", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_IncrementStock_SQL(t *testing.T) {
	t.Run("issues a single guarded increment", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		id := uuid.New()
		mock.ExpectExec(`UPDATE "items" SET "current_stock"=CASE WHEN type = \$1 THEN current_stock \+ \$2 ELSE current_stock END,"updated_at"=\$3 WHERE id = \$4`).
			WithArgs("product", int64(30), sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.IncrementStock(context.Background(), id, 30))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matched row is ErrNotFound", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		mock.ExpectExec(`UPDATE "items" SET .* WHERE id = .*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.IncrementStock(context.Background(), uuid.New(), -3)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_Save(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	t.Run("creates and reloads an item", func(t *testing.T) {
		item := newItem(t, "Steel Bolt", catalog.ItemTypeProduct, 12)
		item.SetDetails("BOLT-01", "Hardware", "", "7318", "M8 bolt")
		require.NoError(t, item.SetPricing(decimal.NewFromInt(15), decimal.NewFromInt(10), decimal.NewFromInt(18)))

		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Steel Bolt", found.Name)
		assert.Equal(t, "BOLT-01", found.ItemCode)
		assert.Equal(t, int64(12), found.OpeningStock)
		assert.Equal(t, int64(12), found.CurrentStock)
		assert.True(t, decimal.NewFromInt(15).Equal(found.SalePrice))
	})

	t.Run("updates never write current stock", func(t *testing.T) {
		item := newItem(t, "Washer", catalog.ItemTypeProduct, 5)
		require.NoError(t, repo.Save(ctx, item))
		require.NoError(t, repo.IncrementStock(ctx, item.ID, 20))

		require.NoError(t, item.Rename("Flat Washer"))
		item.CurrentStock = 999
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flat Washer", found.Name)
		assert.Equal(t, int64(25), found.CurrentStock)
	})

	t.Run("duplicate item code is a conflict", func(t *testing.T) {
		a := newItem(t, "Nut A", catalog.ItemTypeProduct, 0)
		a.SetDetails("NUT", "", "", "", "")
		require.NoError(t, repo.Save(ctx, a))

		b := newItem(t, "Nut B", catalog.ItemTypeProduct, 0)
		b.SetDetails("NUT", "", "", "", "")
		err := repo.Save(ctx, b)

		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("items without a code do not collide", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newItem(t, "Loose A", catalog.ItemTypeProduct, 0)))
		require.NoError(t, repo.Save(ctx, newItem(t, "Loose B", catalog.ItemTypeProduct, 0)))
	})
}

func TestGormItemRepository_IncrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	product := newItem(t, "Cable", catalog.ItemTypeProduct, 10)
	service := newItem(t, "Installation", catalog.ItemTypeService, 0)
	require.NoError(t, repo.Save(ctx, product))
	require.NoError(t, repo.Save(ctx, service))

	t.Run("adds and subtracts", func(t *testing.T) {
		require.NoError(t, repo.IncrementStock(ctx, product.ID, 30))
		require.NoError(t, repo.IncrementStock(ctx, product.ID, -45))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(-5), found.CurrentStock, "stock may go negative")
	})

	t.Run("service items are matched but unchanged", func(t *testing.T) {
		require.NoError(t, repo.IncrementStock(ctx, service.ID, 7))

		found, err := repo.FindByID(ctx, service.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), found.CurrentStock)
	})

	t.Run("missing item", func(t *testing.T) {
		assert.Equal(t, shared.ErrNotFound, repo.IncrementStock(ctx, uuid.New(), 1))
	})
}

func TestGormItemRepository_Queries(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	bolt := newItem(t, "Bolt", catalog.ItemTypeProduct, 2)
	require.NoError(t, bolt.SetMinStockLevel(5))
	nut := newItem(t, "Nut", catalog.ItemTypeProduct, 50)
	require.NoError(t, nut.SetMinStockLevel(5))
	labour := newItem(t, "Labour", catalog.ItemTypeService, 0)
	for _, i := range []*catalog.Item{bolt, nut, labour} {
		require.NoError(t, repo.Save(ctx, i))
	}

	t.Run("FindByIDs skips unknown ids", func(t *testing.T) {
		items, err := repo.FindByIDs(ctx, []uuid.UUID{bolt.ID, uuid.New(), labour.ID})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("filters by type", func(t *testing.T) {
		service := catalog.ItemTypeService
		items, err := repo.FindAll(ctx, catalog.ItemFilter{Filter: shared.DefaultFilter(), Type: &service})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Labour", items[0].Name)
	})

	t.Run("low stock", func(t *testing.T) {
		filter := catalog.ItemFilter{Filter: shared.DefaultFilter(), LowStock: true}
		items, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, bolt.ID, items[0].ID)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "BOL"
		items, err := repo.FindAll(ctx, catalog.ItemFilter{Filter: filter})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Bolt", items[0].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.OrderBy = "name"
		filter.OrderDir = "asc"
		items, err := repo.FindAll(ctx, catalog.ItemFilter{Filter: filter})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Bolt", items[0].Name)
		assert.Equal(t, "Labour", items[1].Name)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, labour.ID))
		assert.Equal(t, shared.ErrNotFound, repo.Delete(ctx, labour.ID))
	})
}
