package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records a standalone money movement
type CreateTransactionRequest struct {
	Type            string          `json:"type" binding:"required,transaction_type"`
	PartyID         *uuid.UUID      `json:"party_id"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"`
	PaymentMode     string          `json:"payment_mode" binding:"omitempty,payment_mode"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
	Description     string          `json:"description" binding:"max=500"`
	TransactionDate *time.Time      `json:"transaction_date"`
}

// ToInput converts the request for the coordinator
func (r CreateTransactionRequest) ToInput() coordinator.TransactionInput {
	in := coordinator.TransactionInput{
		Type:            finance.TransactionType(r.Type),
		PartyID:         r.PartyID,
		Amount:          r.Amount,
		PaymentMode:     finance.PaymentMode(r.PaymentMode),
		ReferenceNumber: r.ReferenceNumber,
		Description:     r.Description,
	}
	if r.TransactionDate != nil {
		in.TransactionDate = *r.TransactionDate
	}
	return in
}

// LinkedDocumentResponse points at the sale or purchase owning a transaction
type LinkedDocumentResponse struct {
	DocumentType string     `json:"document_type"`
	DocumentID   *uuid.UUID `json:"document_id,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID              `json:"id"`
	Type            string                 `json:"type"`
	PartyID         *uuid.UUID             `json:"party_id,omitempty"`
	Amount          decimal.Decimal        `json:"amount"`
	PaymentMode     string                 `json:"payment_mode"`
	ReferenceNumber string                 `json:"reference_number"`
	Description     string                 `json:"description"`
	TransactionDate time.Time              `json:"transaction_date"`
	Linked          LinkedDocumentResponse `json:"linked_document"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ToTransactionResponse converts a domain transaction
func ToTransactionResponse(t *finance.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Type:            string(t.Type),
		PartyID:         t.PartyID,
		Amount:          t.Amount,
		PaymentMode:     string(t.PaymentMode),
		ReferenceNumber: t.ReferenceNumber,
		Description:     t.Description,
		TransactionDate: t.TransactionDate,
		Linked: LinkedDocumentResponse{
			DocumentType: string(t.Linked.DocumentType),
			DocumentID:   t.Linked.DocumentID,
		},
		CreatedAt: t.CreatedAt,
	}
}

// TransactionListFilter represents filter options for the transaction list
type TransactionListFilter struct {
	Type     string     `form:"type" binding:"omitempty,transaction_type"`
	PartyID  string     `form:"party_id" binding:"omitempty,uuid"`
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f TransactionListFilter) toDomain() finance.TransactionFilter {
	out := finance.TransactionFilter{
		Filter:   pageFilter("", f.Page, f.PageSize, "transaction_date", "desc"),
		FromDate: f.FromDate,
		ToDate:   f.ToDate,
	}
	if f.Type != "" {
		t := finance.TransactionType(f.Type)
		out.Type = &t
	}
	if id, err := uuid.Parse(f.PartyID); err == nil {
		out.PartyID = &id
	}
	return out
}
