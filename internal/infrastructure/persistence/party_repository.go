package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPartyRepository implements PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a party by its ID
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	var model models.PartyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists parties matching the filter
func (r *GormPartyRepository) FindAll(ctx context.Context, filter partner.PartyFilter) ([]partner.Party, error) {
	var partyModels []models.PartyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartyModel{}), filter)
	if err := query.Find(&partyModels).Error; err != nil {
		return nil, err
	}
	parties := make([]partner.Party, len(partyModels))
	for i := range partyModels {
		parties[i] = *partyModels[i].ToDomain()
	}
	return parties, nil
}

// Count counts parties matching the filter
func (r *GormPartyRepository) Count(ctx context.Context, filter partner.PartyFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PartyModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a party. Updates never write the balances.
func (r *GormPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	model := models.PartyModelFromDomain(party)
	db := r.db.WithContext(ctx)

	result := db.Model(model).Select("*").
		Omit("id", "created_at", "opening_balance", "current_balance", "balance_type").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return db.Create(model).Error
}

// ApplyBalanceDelta adds delta to current_balance and rederives balance_type
// in one statement. Both SET expressions read the pre-update balance.
func (r *GormPartyRepository) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal, origin partner.BalanceOrigin) error {
	atZero := partner.DeriveBalanceType(decimal.Zero, origin)
	result := r.db.WithContext(ctx).Model(&models.PartyModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_balance": gorm.Expr("current_balance + ?", delta),
			"balance_type": gorm.Expr(
				"CASE WHEN current_balance + ? > 0 THEN ? WHEN current_balance + ? < 0 THEN ? ELSE ? END",
				delta, partner.BalanceTypeReceivable, delta, partner.BalanceTypePayable, atZero,
			),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a party
func (r *GormPartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PartyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormPartyRepository) applyFilter(query *gorm.DB, filter partner.PartyFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(partySort.clause(filter.OrderBy, filter.OrderDir))
}

func (r *GormPartyRepository) applyFilterWithoutPagination(query *gorm.DB, filter partner.PartyFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	if filter.Type != nil {
		switch *filter.Type {
		case partner.PartyTypeCustomer, partner.PartyTypeSupplier:
			query = query.Where("type IN ?", []partner.PartyType{*filter.Type, partner.PartyTypeBoth})
		default:
			query = query.Where("type = ?", *filter.Type)
		}
	}
	for key, value := range filter.Filters {
		switch key {
		case "balance_type":
			query = query.Where("balance_type = ?", value)
		case "city":
			query = query.Where("billing_city = ?", value)
		}
	}
	return query
}

// Ensure GormPartyRepository implements PartyRepository
var _ partner.PartyRepository = (*GormPartyRepository)(nil)
