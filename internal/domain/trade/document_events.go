package trade

import (
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventAction is the lifecycle step a document event reports
type EventAction string

const (
	EventCreated EventAction = "Created"
	EventUpdated EventAction = "Updated"
	EventDeleted EventAction = "Deleted"
)

// EventType returns the event type name, e.g. SaleCreated or PurchaseDeleted
func EventType(kind Kind, action EventAction) string {
	return kind.Label() + string(action)
}

// DocumentEvent reports a sale or purchase lifecycle change
type DocumentEvent struct {
	shared.BaseDomainEvent
	DocumentID    uuid.UUID       `json:"document_id"`
	Kind          Kind            `json:"kind"`
	Number        string          `json:"number"`
	PartyID       uuid.UUID       `json:"party_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	LineCount     int             `json:"line_count"`
	ItemIDs       []uuid.UUID     `json:"item_ids"`
}

// NewDocumentEvent creates a DocumentEvent for the document's current state
func NewDocumentEvent(action EventAction, d *Document) *DocumentEvent {
	return &DocumentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventType(d.Kind, action), d.Kind.Label(), d.ID),
		DocumentID:      d.ID,
		Kind:            d.Kind,
		Number:          d.Number,
		PartyID:         d.PartyID,
		TotalAmount:     d.TotalAmount,
		PaidAmount:      d.PaidAmount,
		BalanceAmount:   d.BalanceAmount,
		LineCount:       len(d.Lines),
		ItemIDs:         d.ItemIDs(),
	}
}
