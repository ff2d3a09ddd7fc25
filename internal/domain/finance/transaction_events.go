package finance

import (
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeTransaction     = "Transaction"
	EventTypeTransactionRecorded = "TransactionRecorded"
	EventTypeTransactionDeleted  = "TransactionDeleted"
)

// TransactionRecordedEvent is raised when a transaction is stored
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PartyID       *uuid.UUID      `json:"party_id,omitempty"`
	Linked        bool            `json:"linked"`
}

// NewTransactionRecordedEvent creates a TransactionRecordedEvent
func NewTransactionRecordedEvent(t *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
		PartyID:         t.PartyID,
		Linked:          t.IsLinked(),
	}
}

// TransactionDeletedEvent is raised when a transaction is removed
type TransactionDeletedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewTransactionDeletedEvent creates a TransactionDeletedEvent
func NewTransactionDeletedEvent(t *Transaction) *TransactionDeletedEvent {
	return &TransactionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionDeleted, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
	}
}
