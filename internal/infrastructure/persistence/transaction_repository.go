package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists transactions matching the filter, newest first by default
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransactionModel{}), filter)
	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(txModels), nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter finance.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TransactionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByLinkedDocument finds the transactions owned by a sale or purchase
func (r *GormTransactionRepository) FindByLinkedDocument(ctx context.Context, docType finance.DocumentType, docID uuid.UUID) ([]finance.Transaction, error) {
	var txModels []models.TransactionModel
	err := r.db.WithContext(ctx).
		Where("linked_doc_type = ? AND linked_doc_id = ?", docType, docID).
		Order("created_at ASC").
		Find(&txModels).Error
	if err != nil {
		return nil, err
	}
	return transactionsToDomain(txModels), nil
}

// Create inserts a transaction
func (r *GormTransactionRepository) Create(ctx context.Context, tx *finance.Transaction) error {
	return r.db.WithContext(ctx).Create(models.TransactionModelFromDomain(tx)).Error
}

// Delete removes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByLinkedDocument removes every transaction owned by a document
func (r *GormTransactionRepository) DeleteByLinkedDocument(ctx context.Context, docType finance.DocumentType, docID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("linked_doc_type = ? AND linked_doc_id = ?", docType, docID).
		Delete(&models.TransactionModel{})
	return result.RowsAffected, result.Error
}

// ExistsByParty reports whether any transaction references the party
func (r *GormTransactionRepository) ExistsByParty(ctx context.Context, partyID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("party_id = ?", partyID))
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(transactionSort.clause(filter.OrderBy, filter.OrderDir))
}

func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(description) LIKE ? OR LOWER(reference_number) LIKE ?", pattern, pattern)
	}
	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FromDate != nil {
		query = query.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("transaction_date <= ?", *filter.ToDate)
	}
	for key, value := range filter.Filters {
		switch key {
		case "payment_mode":
			query = query.Where("payment_mode = ?", value)
		case "linked":
			if value == true {
				query = query.Where("linked_doc_id IS NOT NULL")
			} else {
				query = query.Where("linked_doc_id IS NULL")
			}
		}
	}
	return query
}

func transactionsToDomain(txModels []models.TransactionModel) []finance.Transaction {
	txs := make([]finance.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = *txModels[i].ToDomain()
	}
	return txs
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
