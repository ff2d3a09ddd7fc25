package partner

import (
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeParty    = "Party"
	EventTypePartyCreated = "PartyCreated"
)

// PartyCreatedEvent is raised when a party is registered
type PartyCreatedEvent struct {
	shared.BaseDomainEvent
	PartyID        uuid.UUID       `json:"party_id"`
	Name           string          `json:"name"`
	Type           PartyType       `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewPartyCreatedEvent creates a PartyCreatedEvent
func NewPartyCreatedEvent(p *Party) *PartyCreatedEvent {
	return &PartyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartyCreated, AggregateTypeParty, p.ID),
		PartyID:         p.ID,
		Name:            p.Name,
		Type:            p.Type,
		OpeningBalance:  p.OpeningBalance,
	}
}
