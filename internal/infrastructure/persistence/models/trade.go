package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for sales and purchases.
// Both kinds share one table, told apart by the kind column; the number is
// unique per kind.
type DocumentModel struct {
	AggregateModel
	Kind           trade.Kind             `gorm:"type:varchar(20);not null;uniqueIndex:idx_documents_kind_number,priority:1"`
	Number         string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_documents_kind_number,priority:2"`
	PartyID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	StateOfSupply  string                 `gorm:"type:varchar(100)"`
	DocumentDate   time.Time              `gorm:"not null;index"`
	DueDate        *time.Time
	Subtotal       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	RoundOff       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceAmount  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus  trade.PaymentStatus    `gorm:"type:varchar(20);not null;default:'unpaid'"`
	Notes          string                 `gorm:"type:text"`
	Lines          []DocumentLineModel    `gorm:"foreignKey:DocumentID;references:ID"`
	Payments       []DocumentPaymentModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *trade.Document {
	d := &trade.Document{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              m.Kind,
		Number:            m.Number,
		PartyID:           m.PartyID,
		StateOfSupply:     m.StateOfSupply,
		DocumentDate:      m.DocumentDate,
		DueDate:           m.DueDate,
		Subtotal:          m.Subtotal,
		TaxAmount:         m.TaxAmount,
		RoundOff:          m.RoundOff,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		BalanceAmount:     m.BalanceAmount,
		PaymentStatus:     m.PaymentStatus,
		Notes:             m.Notes,
		Lines:             make([]trade.Line, len(m.Lines)),
	}
	for i, l := range m.Lines {
		d.Lines[i] = l.ToDomain()
	}
	if len(m.Payments) > 0 {
		d.PaymentDetails = make([]trade.PaymentDetail, len(m.Payments))
		for i, p := range m.Payments {
			d.PaymentDetails[i] = p.ToDomain()
		}
	}
	return d
}

// FromDomain populates the persistence model from a domain Document
func (m *DocumentModel) FromDomain(d *trade.Document) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Kind = d.Kind
	m.Number = d.Number
	m.PartyID = d.PartyID
	m.StateOfSupply = d.StateOfSupply
	m.DocumentDate = d.DocumentDate
	m.DueDate = d.DueDate
	m.Subtotal = d.Subtotal
	m.TaxAmount = d.TaxAmount
	m.RoundOff = d.RoundOff
	m.TotalAmount = d.TotalAmount
	m.PaidAmount = d.PaidAmount
	m.BalanceAmount = d.BalanceAmount
	m.PaymentStatus = d.PaymentStatus
	m.Notes = d.Notes

	m.Lines = make([]DocumentLineModel, len(d.Lines))
	for i, l := range d.Lines {
		m.Lines[i] = DocumentLineModelFromDomain(d.ID, i, l)
	}
	m.Payments = make([]DocumentPaymentModel, len(d.PaymentDetails))
	for i, p := range d.PaymentDetails {
		m.Payments[i] = DocumentPaymentModel{
			ID:              uuid.New(),
			DocumentID:      d.ID,
			Position:        i,
			PaymentMode:     p.PaymentMode,
			Amount:          p.Amount,
			ReferenceNumber: p.ReferenceNumber,
		}
	}
}

// DocumentModelFromDomain creates a new persistence model from a domain Document
func DocumentModelFromDomain(d *trade.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// DocumentLineModel is the persistence model for a sale or purchase line
type DocumentLineModel struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key"`
	DocumentID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Position       int                `gorm:"not null;default:0"`
	ItemID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	Description    string             `gorm:"type:varchar(500)"`
	Quantity       int64              `gorm:"not null"`
	Unit           string             `gorm:"type:varchar(20)"`
	Rate           decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	DiscountType   trade.DiscountType `gorm:"type:varchar(20)"`
	DiscountValue  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TaxableAmount  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate        decimal.Decimal    `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Amount         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the persistence model to a domain line
func (m DocumentLineModel) ToDomain() trade.Line {
	return trade.Line{
		ID:             m.ID,
		ItemID:         m.ItemID,
		Description:    m.Description,
		Quantity:       m.Quantity,
		Unit:           m.Unit,
		Rate:           m.Rate,
		DiscountType:   m.DiscountType,
		DiscountValue:  m.DiscountValue,
		DiscountAmount: m.DiscountAmount,
		TaxableAmount:  m.TaxableAmount,
		TaxRate:        m.TaxRate,
		TaxAmount:      m.TaxAmount,
		Amount:         m.Amount,
	}
}

// DocumentLineModelFromDomain maps a domain line at the given position
func DocumentLineModelFromDomain(documentID uuid.UUID, position int, l trade.Line) DocumentLineModel {
	id := l.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return DocumentLineModel{
		ID:             id,
		DocumentID:     documentID,
		Position:       position,
		ItemID:         l.ItemID,
		Description:    l.Description,
		Quantity:       l.Quantity,
		Unit:           l.Unit,
		Rate:           l.Rate,
		DiscountType:   l.DiscountType,
		DiscountValue:  l.DiscountValue,
		DiscountAmount: l.DiscountAmount,
		TaxableAmount:  l.TaxableAmount,
		TaxRate:        l.TaxRate,
		TaxAmount:      l.TaxAmount,
		Amount:         l.Amount,
	}
}

// DocumentPaymentModel is one payment detail captured with a document
type DocumentPaymentModel struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key"`
	DocumentID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position        int                 `gorm:"not null;default:0"`
	PaymentMode     finance.PaymentMode `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ReferenceNumber string              `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (DocumentPaymentModel) TableName() string {
	return "document_payments"
}

// ToDomain converts the persistence model to a domain payment detail
func (m DocumentPaymentModel) ToDomain() trade.PaymentDetail {
	return trade.PaymentDetail{
		PaymentMode:     m.PaymentMode,
		Amount:          m.Amount,
		ReferenceNumber: m.ReferenceNumber,
	}
}
