package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository for one document kind.
// Sales and purchases share the documents table; every query is scoped by kind.
type GormDocumentRepository struct {
	db   *gorm.DB
	kind trade.Kind
}

// NewGormDocumentRepository creates a repository serving documents of kind
func NewGormDocumentRepository(db *gorm.DB, kind trade.Kind) *GormDocumentRepository {
	return &GormDocumentRepository{db: db, kind: kind}
}

// NewGormSaleRepository creates the repository for sales
func NewGormSaleRepository(db *gorm.DB) *GormDocumentRepository {
	return NewGormDocumentRepository(db, trade.KindSale)
}

// NewGormPurchaseRepository creates the repository for purchases
func NewGormPurchaseRepository(db *gorm.DB) *GormDocumentRepository {
	return NewGormDocumentRepository(db, trade.KindPurchase)
}

// Kind returns the document kind this repository serves
func (r *GormDocumentRepository) Kind() trade.Kind {
	return r.kind
}

func (r *GormDocumentRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("kind = ?", r.kind)
}

// FindByID loads a document with its lines and payment details
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Document, error) {
	var model models.DocumentModel
	err := r.scoped(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists documents matching the filter. Lines are loaded, payment
// details are not.
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter trade.DocumentFilter) ([]trade.Document, error) {
	var docModels []models.DocumentModel
	query := r.applyFilter(r.scoped(ctx), filter).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if err := query.Find(&docModels).Error; err != nil {
		return nil, err
	}
	docs := make([]trade.Document, len(docModels))
	for i := range docModels {
		docs[i] = *docModels[i].ToDomain()
	}
	return docs, nil
}

// Count counts documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter trade.DocumentFilter) (int64, error) {
	var count int64
	if err := r.applyFilterWithoutPagination(r.scoped(ctx), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a document with its lines and payment details
func (r *GormDocumentRepository) Create(ctx context.Context, doc *trade.Document) error {
	if doc.Kind != r.kind {
		return shared.NewValidationError("INVALID_DOCUMENT_KIND", "Document kind does not match repository")
	}
	if err := r.db.WithContext(ctx).Create(models.DocumentModelFromDomain(doc)).Error; err != nil {
		return r.translateError(err)
	}
	return nil
}

// Update rewrites the header guarded by expectedVersion and replaces the
// lines and payment details
func (r *GormDocumentRepository) Update(ctx context.Context, doc *trade.Document, expectedVersion int) error {
	db := r.db.WithContext(ctx)
	model := models.DocumentModelFromDomain(doc)

	result := db.Model(&models.DocumentModel{}).
		Where("id = ? AND kind = ? AND version = ?", doc.ID, r.kind, expectedVersion).
		Updates(map[string]any{
			"number":          model.Number,
			"party_id":        model.PartyID,
			"state_of_supply": model.StateOfSupply,
			"document_date":   model.DocumentDate,
			"due_date":        model.DueDate,
			"subtotal":        model.Subtotal,
			"tax_amount":      model.TaxAmount,
			"round_off":       model.RoundOff,
			"total_amount":    model.TotalAmount,
			"paid_amount":     model.PaidAmount,
			"balance_amount":  model.BalanceAmount,
			"payment_status":  model.PaymentStatus,
			"notes":           model.Notes,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return r.translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return versionMiss(db.Where("kind = ?", r.kind), &models.DocumentModel{}, doc.ID)
	}

	if err := r.deleteChildren(db, doc.ID); err != nil {
		return err
	}
	if len(model.Lines) > 0 {
		if err := db.Create(&model.Lines).Error; err != nil {
			return err
		}
	}
	if len(model.Payments) > 0 {
		if err := db.Create(&model.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a document and its children
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	found, err := exists(r.scoped(ctx).Where("id = ?", id))
	if err != nil {
		return err
	}
	if !found {
		return shared.ErrNotFound
	}
	if err := r.deleteChildren(db, id); err != nil {
		return err
	}
	return db.Where("id = ? AND kind = ?", id, r.kind).Delete(&models.DocumentModel{}).Error
}

func (r *GormDocumentRepository) deleteChildren(db *gorm.DB, id uuid.UUID) error {
	if err := db.Where("document_id = ?", id).Delete(&models.DocumentLineModel{}).Error; err != nil {
		return err
	}
	return db.Where("document_id = ?", id).Delete(&models.DocumentPaymentModel{}).Error
}

// ExistsByParty reports whether any document of this kind references the party
func (r *GormDocumentRepository) ExistsByParty(ctx context.Context, partyID uuid.UUID) (bool, error) {
	return exists(r.scoped(ctx).Where("party_id = ?", partyID))
}

// ExistsByItem reports whether any line of a document of this kind references the item
func (r *GormDocumentRepository) ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.DocumentLineModel{}).
		Joins("JOIN documents ON documents.id = document_lines.document_id").
		Where("documents.kind = ? AND document_lines.item_id = ?", r.kind, itemID))
}

func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter trade.DocumentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(documentSort.clause(filter.OrderBy, filter.OrderDir))
}

func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter trade.DocumentFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(number) LIKE ?", likePattern(filter.Search))
	}
	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.FromDate != nil {
		query = query.Where("document_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("document_date <= ?", *filter.ToDate)
	}
	return query
}

func (r *GormDocumentRepository) translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError("DUPLICATE_DOCUMENT_NUMBER", r.kind.Label()+" number already exists")
	}
	return err
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ trade.DocumentRepository = (*GormDocumentRepository)(nil)
