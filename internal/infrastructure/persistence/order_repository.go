package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") })
}

// FindByID loads an order with its lines and history
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.withChildren(r.db.WithContext(ctx)).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.OrderFilter) ([]order.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.withChildren(r.db.WithContext(ctx)).Model(&models.OrderModel{}), filter)
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter order.OrderFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new order with its lines and initial history
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderModelFromDomain(o)).Error
}

// Update writes the order guarded by expectedVersion. Lines are replaced;
// history rows are append-only, so only entries beyond those stored are inserted.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order, expectedVersion int) error {
	db := r.db.WithContext(ctx)
	model := models.OrderModelFromDomain(o)

	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, expectedVersion).
		Updates(map[string]any{
			"party_id":                model.PartyID,
			"po_number":               model.PONumber,
			"po_date":                 model.PODate,
			"estimated_delivery_date": model.EstimatedDeliveryDate,
			"status":                  model.Status,
			"priority":                model.Priority,
			"total_amount":            model.TotalAmount,
			"notes":                   model.Notes,
			"version":                 model.Version,
			"updated_at":              model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return versionMiss(db, &models.OrderModel{}, o.ID)
	}

	if err := db.Where("order_id = ?", o.ID).Delete(&models.OrderLineModel{}).Error; err != nil {
		return err
	}
	if len(model.Lines) > 0 {
		if err := db.Create(&model.Lines).Error; err != nil {
			return err
		}
	}

	var stored int64
	if err := db.Model(&models.OrderHistoryModel{}).Where("order_id = ?", o.ID).Count(&stored).Error; err != nil {
		return err
	}
	appended := models.OrderHistoryModelsFromDomain(o.ID, o.History, int(stored))
	if len(appended) > 0 {
		if err := db.Create(&appended).Error; err != nil {
			return err
		}
	}
	return nil
}

type statusCount struct {
	Status order.Status
	Count  int64
}

// CountByStatus counts orders per current status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[order.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ExistsByParty reports whether any order references the party
func (r *GormOrderRepository) ExistsByParty(ctx context.Context, partyID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("party_id = ?", partyID))
}

// ExistsByItem reports whether any order line references the item
func (r *GormOrderRepository) ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.OrderLineModel{}).Where("item_id = ?", itemID))
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter order.OrderFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(orderSort.clause(filter.OrderBy, filter.OrderDir))
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter order.OrderFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(po_number) LIKE ?", likePattern(filter.Search))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	} else {
		query = query.Where("status <> ?", order.StatusDeleted)
	}
	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	for key, value := range filter.Filters {
		switch key {
		case "priority":
			query = query.Where("priority = ?", value)
		}
	}
	return query
}

// exists runs a COUNT over the scoped query
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// versionMiss explains a guarded update that matched no row: either the
// aggregate is gone or its version moved on.
func versionMiss(db *gorm.DB, model any, id uuid.UUID) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
