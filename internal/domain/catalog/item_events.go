package catalog

import (
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

const (
	AggregateTypeItem    = "Item"
	EventTypeItemCreated = "ItemCreated"
)

// ItemCreatedEvent is raised when a new item is registered
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID `json:"item_id"`
	Name         string    `json:"name"`
	Type         ItemType  `json:"type"`
	OpeningStock int64     `json:"opening_stock"`
}

// NewItemCreatedEvent creates an ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Type:            item.Type,
		OpeningStock:    item.OpeningStock,
	}
}
