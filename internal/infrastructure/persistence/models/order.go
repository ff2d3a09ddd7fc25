package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	PartyID               uuid.UUID           `gorm:"type:uuid;not null;index"`
	PONumber              string              `gorm:"column:po_number;type:varchar(100);not null;index"`
	PODate                time.Time           `gorm:"column:po_date;not null"`
	EstimatedDeliveryDate *time.Time          `gorm:"column:estimated_delivery_date"`
	Status                order.Status        `gorm:"type:varchar(30);not null;default:'New';index"`
	Priority              order.Priority      `gorm:"type:varchar(20);not null;default:'Normal'"`
	TotalAmount           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Notes                 string              `gorm:"type:text"`
	Lines                 []OrderLineModel    `gorm:"foreignKey:OrderID;references:ID"`
	History               []OrderHistoryModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		PartyID:               m.PartyID,
		PONumber:              m.PONumber,
		PODate:                m.PODate,
		EstimatedDeliveryDate: m.EstimatedDeliveryDate,
		Status:                m.Status,
		Priority:              m.Priority,
		TotalAmount:           m.TotalAmount,
		Notes:                 m.Notes,
		Lines:                 make([]order.Line, len(m.Lines)),
		History:               make([]order.HistoryEntry, len(m.History)),
	}
	for i, l := range m.Lines {
		o.Lines[i] = l.ToDomain()
	}
	for i, h := range m.History {
		o.History[i] = h.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.PartyID = o.PartyID
	m.PONumber = o.PONumber
	m.PODate = o.PODate
	m.EstimatedDeliveryDate = o.EstimatedDeliveryDate
	m.Status = o.Status
	m.Priority = o.Priority
	m.TotalAmount = o.TotalAmount
	m.Notes = o.Notes
	m.Lines = OrderLineModelsFromDomain(o.ID, o.Lines)
	m.History = OrderHistoryModelsFromDomain(o.ID, o.History, 0)
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for an order line.
type OrderLineModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null;default:0"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName     string          `gorm:"type:varchar(200)"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit         string          `gorm:"type:varchar(20)"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DeliveryDate *time.Time
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain order line
func (m OrderLineModel) ToDomain() order.Line {
	return order.Line{
		ID:           m.ID,
		ItemID:       m.ItemID,
		ItemName:     m.ItemName,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		Rate:         m.Rate,
		Amount:       m.Amount,
		DeliveryDate: m.DeliveryDate,
	}
}

// OrderLineModelsFromDomain maps order lines, keeping their position
func OrderLineModelsFromDomain(orderID uuid.UUID, lines []order.Line) []OrderLineModel {
	out := make([]OrderLineModel, len(lines))
	for i, l := range lines {
		id := l.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		out[i] = OrderLineModel{
			ID:           id,
			OrderID:      orderID,
			Position:     i,
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
			Rate:         l.Rate,
			Amount:       l.Amount,
			DeliveryDate: l.DeliveryDate,
		}
	}
	return out
}

// OrderHistoryModel is one append-only status history row.
// Seq orders entries within an order.
type OrderHistoryModel struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_order_history_seq,priority:1"`
	Seq       int          `gorm:"not null;uniqueIndex:idx_order_history_seq,priority:2"`
	Status    order.Status `gorm:"type:varchar(30);not null"`
	Note      string       `gorm:"type:varchar(500);not null"`
	ChangedBy string       `gorm:"type:varchar(100)"`
	Timestamp time.Time    `gorm:"column:changed_at;not null"`
}

// TableName returns the table name for GORM
func (OrderHistoryModel) TableName() string {
	return "order_status_history"
}

// ToDomain converts the persistence model to a domain history entry
func (m OrderHistoryModel) ToDomain() order.HistoryEntry {
	return order.HistoryEntry{
		Status:    m.Status,
		Note:      m.Note,
		ChangedBy: m.ChangedBy,
		Timestamp: m.Timestamp,
	}
}

// OrderHistoryModelsFromDomain maps history entries starting at index from
func OrderHistoryModelsFromDomain(orderID uuid.UUID, entries []order.HistoryEntry, from int) []OrderHistoryModel {
	if from >= len(entries) {
		return nil
	}
	out := make([]OrderHistoryModel, 0, len(entries)-from)
	for i := from; i < len(entries); i++ {
		e := entries[i]
		out = append(out, OrderHistoryModel{
			ID:        uuid.New(),
			OrderID:   orderID,
			Seq:       i,
			Status:    e.Status,
			Note:      e.Note,
			ChangedBy: e.ChangedBy,
			Timestamp: e.Timestamp,
		})
	}
	return out
}
