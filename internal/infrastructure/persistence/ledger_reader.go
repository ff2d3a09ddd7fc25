package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerReader aggregates stored documents and transactions for the reconciler
type GormLedgerReader struct {
	db *gorm.DB
}

// NewGormLedgerReader creates a new GormLedgerReader
func NewGormLedgerReader(db *gorm.DB) *GormLedgerReader {
	return &GormLedgerReader{db: db}
}

// StockFigures returns opening, current and moved quantities per product
func (r *GormLedgerReader) StockFigures(ctx context.Context) ([]reconcile.StockFigure, error) {
	var rows []reconcile.StockFigure
	err := r.db.WithContext(ctx).
		Table("items").
		Select(`items.id AS item_id, items.name AS name,
			items.opening_stock AS opening, items.current_stock AS current,
			COALESCE(SUM(CASE WHEN documents.kind = ? THEN document_lines.quantity ELSE 0 END), 0) AS purchased,
			COALESCE(SUM(CASE WHEN documents.kind = ? THEN document_lines.quantity ELSE 0 END), 0) AS sold`,
			trade.KindPurchase, trade.KindSale).
		Joins("LEFT JOIN document_lines ON document_lines.item_id = items.id").
		Joins("LEFT JOIN documents ON documents.id = document_lines.document_id").
		Where("items.type = ?", catalog.ItemTypeProduct).
		Group("items.id, items.name, items.opening_stock, items.current_stock").
		Order("items.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type partyKindTotal struct {
	PartyID uuid.UUID
	Kind    string
	Total   decimal.Decimal
}

// BalanceFigures returns opening, current, exposure and payment totals per party.
// Documents and transactions are summed separately so neither multiplies the other.
func (r *GormLedgerReader) BalanceFigures(ctx context.Context) ([]reconcile.BalanceFigure, error) {
	db := r.db.WithContext(ctx)

	var parties []models.PartyModel
	if err := db.Order("name ASC").Find(&parties).Error; err != nil {
		return nil, err
	}

	var docTotals []partyKindTotal
	err := db.Model(&models.DocumentModel{}).
		Select("party_id, kind, SUM(total_amount) AS total").
		Group("party_id, kind").
		Scan(&docTotals).Error
	if err != nil {
		return nil, err
	}

	var paymentTotals []partyKindTotal
	err = db.Model(&models.TransactionModel{}).
		Select("party_id, type AS kind, SUM(amount) AS total").
		Where("party_id IS NOT NULL AND type IN ?", []finance.TransactionType{finance.TransactionTypePaymentIn, finance.TransactionTypePaymentOut}).
		Group("party_id, type").
		Scan(&paymentTotals).Error
	if err != nil {
		return nil, err
	}

	figures := make([]reconcile.BalanceFigure, len(parties))
	index := make(map[uuid.UUID]*reconcile.BalanceFigure, len(parties))
	for i, p := range parties {
		figures[i] = reconcile.BalanceFigure{
			PartyID:     p.ID,
			Name:        p.Name,
			Opening:     p.OpeningBalance,
			Current:     p.CurrentBalance,
			Sales:       decimal.Zero,
			Purchases:   decimal.Zero,
			PaymentsIn:  decimal.Zero,
			PaymentsOut: decimal.Zero,
		}
		index[p.ID] = &figures[i]
	}

	for _, t := range docTotals {
		f, ok := index[t.PartyID]
		if !ok {
			continue
		}
		switch trade.Kind(t.Kind) {
		case trade.KindSale:
			f.Sales = t.Total
		case trade.KindPurchase:
			f.Purchases = t.Total
		}
	}
	for _, t := range paymentTotals {
		f, ok := index[t.PartyID]
		if !ok {
			continue
		}
		switch finance.TransactionType(t.Kind) {
		case finance.TransactionTypePaymentIn:
			f.PaymentsIn = t.Total
		case finance.TransactionTypePaymentOut:
			f.PaymentsOut = t.Total
		}
	}
	return figures, nil
}

// Ensure GormLedgerReader implements LedgerReader
var _ reconcile.LedgerReader = (*GormLedgerReader)(nil)
