package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for the Transaction aggregate root
type TransactionModel struct {
	AggregateModel
	PartyID         *uuid.UUID              `gorm:"type:uuid;index"`
	Type            finance.TransactionType `gorm:"type:varchar(20);not null;index"`
	Amount          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	PaymentMode     finance.PaymentMode     `gorm:"type:varchar(20);not null;default:'cash'"`
	ReferenceNumber string                  `gorm:"type:varchar(100)"`
	Description     string                  `gorm:"type:varchar(500)"`
	TransactionDate time.Time               `gorm:"not null;index"`
	LinkedDocType   finance.DocumentType    `gorm:"type:varchar(20);not null;default:'none';index:idx_transactions_linked,priority:1"`
	LinkedDocID     *uuid.UUID              `gorm:"type:uuid;index:idx_transactions_linked,priority:2"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PartyID:           m.PartyID,
		Type:              m.Type,
		Amount:            m.Amount,
		PaymentMode:       m.PaymentMode,
		ReferenceNumber:   m.ReferenceNumber,
		Description:       m.Description,
		TransactionDate:   m.TransactionDate,
		Linked: finance.LinkedDocument{
			DocumentType: m.LinkedDocType,
			DocumentID:   m.LinkedDocID,
		},
	}
}

// FromDomain populates the persistence model from a domain Transaction
func (m *TransactionModel) FromDomain(t *finance.Transaction) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.PartyID = t.PartyID
	m.Type = t.Type
	m.Amount = t.Amount
	m.PaymentMode = t.PaymentMode
	m.ReferenceNumber = t.ReferenceNumber
	m.Description = t.Description
	m.TransactionDate = t.TransactionDate
	m.LinkedDocType = t.Linked.DocumentType
	if m.LinkedDocType == "" {
		m.LinkedDocType = finance.DocumentTypeNone
	}
	m.LinkedDocID = t.Linked.DocumentID
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction
func TransactionModelFromDomain(t *finance.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
