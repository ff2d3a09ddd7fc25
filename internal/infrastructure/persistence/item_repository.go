package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds items by ID; missing IDs are absent from the result
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}
	var itemModels []models.ItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(itemModels), nil
}

// FindAll lists items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, error) {
	var itemModels []models.ItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(itemModels), nil
}

// Count counts items matching the filter
func (r *GormItemRepository) Count(ctx context.Context, filter catalog.ItemFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an item. Updates never write current_stock.
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	db := r.db.WithContext(ctx)

	result := db.Model(model).Select("*").Omit("id", "created_at", "current_stock").Updates(model)
	if result.Error != nil {
		return translateItemError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return translateItemError(db.Create(model).Error)
}

// IncrementStock adds delta to current_stock in a single statement.
// Service items match the row but keep their stock.
func (r *GormItemRepository) IncrementStock(ctx context.Context, id uuid.UUID, delta int64) error {
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_stock": gorm.Expr("CASE WHEN type = ? THEN current_stock + ? ELSE current_stock END", catalog.ItemTypeProduct, delta),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an item
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter catalog.ItemFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(itemSort.clause(filter.OrderBy, filter.OrderDir))
}

func (r *GormItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter catalog.ItemFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(item_code) LIKE ?", pattern, pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.LowStock {
		query = query.Where("type = ? AND min_stock_level > 0 AND current_stock <= min_stock_level", catalog.ItemTypeProduct)
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "unit":
			query = query.Where("unit = ?", value)
		}
	}
	return query
}

func itemsToDomain(itemModels []models.ItemModel) []catalog.Item {
	items := make([]catalog.Item, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items
}

func translateItemError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError("DUPLICATE_ITEM_CODE", "An item with this code already exists")
	}
	return err
}

// likePattern lowercases a search term into a contains pattern
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// Ensure GormItemRepository implements ItemRepository
var _ catalog.ItemRepository = (*GormItemRepository)(nil)
