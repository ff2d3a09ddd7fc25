package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a money movement
type TransactionType string

const (
	TransactionTypePaymentIn  TransactionType = "payment_in"
	TransactionTypePaymentOut TransactionType = "payment_out"
	TransactionTypeSale       TransactionType = "sale"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeIncome     TransactionType = "income"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePaymentIn, TransactionTypePaymentOut, TransactionTypeSale,
		TransactionTypePurchase, TransactionTypeExpense, TransactionTypeIncome:
		return true
	}
	return false
}

// IsPayment returns true for types that settle a party balance
func (t TransactionType) IsPayment() bool {
	return t == TransactionTypePaymentIn || t == TransactionTypePaymentOut
}

// PaymentMode is how money changed hands
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeBank   PaymentMode = "bank"
	PaymentModeCheque PaymentMode = "cheque"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeCard   PaymentMode = "card"
	PaymentModeOther  PaymentMode = "other"
)

// IsValid checks if the mode is a valid PaymentMode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBank, PaymentModeCheque, PaymentModeUPI, PaymentModeCard, PaymentModeOther:
		return true
	}
	return false
}

// DocumentType names the kind of document a transaction belongs to
type DocumentType string

const (
	DocumentTypeNone     DocumentType = "none"
	DocumentTypeSale     DocumentType = "sale"
	DocumentTypePurchase DocumentType = "purchase"
)

// LinkedDocument ties a transaction to the sale or purchase that created it
type LinkedDocument struct {
	DocumentType DocumentType
	DocumentID   *uuid.UUID
}

// IsLinked reports whether the transaction is owned by a document
func (l LinkedDocument) IsLinked() bool {
	return l.DocumentType != "" && l.DocumentType != DocumentTypeNone && l.DocumentID != nil
}

// Unlinked returns the link value of a standalone transaction
func Unlinked() LinkedDocument {
	return LinkedDocument{DocumentType: DocumentTypeNone}
}

// LinkTo returns a link to the given document
func LinkTo(docType DocumentType, docID uuid.UUID) LinkedDocument {
	return LinkedDocument{DocumentType: docType, DocumentID: &docID}
}

// Transaction is a single money movement, optionally against a party
type Transaction struct {
	shared.BaseAggregateRoot
	PartyID         *uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal
	PaymentMode     PaymentMode
	ReferenceNumber string
	Description     string
	TransactionDate time.Time
	Linked          LinkedDocument
}

// NewTransaction creates a transaction.
// Payments require a party; an empty mode means cash; a zero date means now.
func NewTransaction(txType TransactionType, partyID *uuid.UUID, amount decimal.Decimal, mode PaymentMode, date time.Time, linked LinkedDocument) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewValidationError("INVALID_TRANSACTION_TYPE", "Invalid transaction type: "+string(txType))
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if partyID != nil && *partyID == uuid.Nil {
		partyID = nil
	}
	if txType.IsPayment() && partyID == nil {
		return nil, shared.NewValidationError("INVALID_PARTY", "Payments require a party")
	}
	if mode == "" {
		mode = PaymentModeCash
	}
	if !mode.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_MODE", "Invalid payment mode: "+string(mode))
	}
	if date.IsZero() {
		date = time.Now()
	}
	if linked.DocumentType == "" {
		linked.DocumentType = DocumentTypeNone
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartyID:           partyID,
		Type:              txType,
		Amount:            amount.Round(2),
		PaymentMode:       mode,
		TransactionDate:   date,
		Linked:            linked,
	}
	tx.RecordEvent(NewTransactionRecordedEvent(tx))
	return tx, nil
}

// SetReference sets the reference number and description
func (t *Transaction) SetReference(referenceNumber, description string) {
	t.ReferenceNumber = strings.TrimSpace(referenceNumber)
	t.Description = strings.TrimSpace(description)
	t.UpdatedAt = time.Now()
}

// IsLinked reports whether the transaction belongs to a sale or purchase
func (t *Transaction) IsLinked() bool {
	return t.Linked.IsLinked()
}

// AffectsPartyBalance reports whether recording this transaction moves a
// party balance on its own. Only standalone payments do; linked payments are
// applied by their document.
func (t *Transaction) AffectsPartyBalance() bool {
	return !t.IsLinked() && t.PartyID != nil && t.Type.IsPayment()
}
