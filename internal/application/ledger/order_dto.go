package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/workflow"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one ordered item
type OrderLineRequest struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	ItemName     string          `json:"item_name" binding:"max=200"`
	Quantity     decimal.Decimal `json:"quantity" binding:"gt=0"`
	Unit         string          `json:"unit" binding:"max=20"`
	Rate         decimal.Decimal `json:"rate" binding:"gte=0"`
	DeliveryDate *time.Time      `json:"delivery_date"`
}

// OrderDetailsRequest carries the editable fields of an order
type OrderDetailsRequest struct {
	PONumber              string             `json:"po_number" binding:"required,max=100"`
	PODate                *time.Time         `json:"po_date"`
	EstimatedDeliveryDate *time.Time         `json:"estimated_delivery_date"`
	Priority              string             `json:"priority" binding:"omitempty,oneof=Normal High"`
	Notes                 string             `json:"notes" binding:"max=2000"`
	Lines                 []OrderLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ToDetails converts the request into domain details, computing line amounts
func (r OrderDetailsRequest) ToDetails() (order.Details, error) {
	d := order.Details{
		PONumber:              r.PONumber,
		EstimatedDeliveryDate: r.EstimatedDeliveryDate,
		Priority:              order.Priority(r.Priority),
		Notes:                 r.Notes,
		Lines:                 make([]order.Line, 0, len(r.Lines)),
	}
	if r.PODate != nil {
		d.PODate = *r.PODate
	} else {
		d.PODate = time.Now()
	}
	for _, l := range r.Lines {
		line, err := order.NewLine(l.ItemID, l.ItemName, l.Quantity, l.Unit, l.Rate, l.DeliveryDate)
		if err != nil {
			return order.Details{}, err
		}
		d.Lines = append(d.Lines, line)
	}
	return d, nil
}

// CreateOrderRequest places a new order
type CreateOrderRequest struct {
	OrderDetailsRequest
	PartyID uuid.UUID `json:"party_id" binding:"required"`
	Status  string    `json:"status" binding:"omitempty,order_status"`
}

// ChangeStatusRequest moves an order through the workflow
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
	Note   string `json:"note" binding:"max=500"`
}

// OrderLineResponse is a stored order line
type OrderLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	ItemName     string          `json:"item_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
}

// HistoryEntryResponse is one entry of the status history
type HistoryEntryResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                    uuid.UUID              `json:"id"`
	PartyID               uuid.UUID              `json:"party_id"`
	PONumber              string                 `json:"po_number"`
	PODate                time.Time              `json:"po_date"`
	EstimatedDeliveryDate *time.Time             `json:"estimated_delivery_date,omitempty"`
	Status                string                 `json:"status"`
	Priority              string                 `json:"priority"`
	Lines                 []OrderLineResponse    `json:"lines"`
	TotalAmount           decimal.Decimal        `json:"total_amount"`
	Notes                 string                 `json:"notes"`
	History               []HistoryEntryResponse `json:"history"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
	Version               int                    `json:"version"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:                    o.ID,
		PartyID:               o.PartyID,
		PONumber:              o.PONumber,
		PODate:                o.PODate,
		EstimatedDeliveryDate: o.EstimatedDeliveryDate,
		Status:                string(o.Status),
		Priority:              string(o.Priority),
		Lines:                 make([]OrderLineResponse, 0, len(o.Lines)),
		TotalAmount:           o.TotalAmount,
		Notes:                 o.Notes,
		History:               make([]HistoryEntryResponse, 0, len(o.History)),
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		Version:               o.Version,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:           l.ID,
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
			Rate:         l.Rate,
			Amount:       l.Amount,
			DeliveryDate: l.DeliveryDate,
		})
	}
	for _, h := range o.History {
		resp.History = append(resp.History, HistoryEntryResponse{
			Status:    string(h.Status),
			Note:      h.Note,
			ChangedBy: h.ChangedBy,
			Timestamp: h.Timestamp,
		})
	}
	return resp
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,order_status"`
	PartyID  string `form:"party_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the filter for the workflow engine
func (f OrderListFilter) ToDomain() order.OrderFilter {
	out := order.OrderFilter{
		Filter: pageFilter(f.Search, f.Page, f.PageSize, f.OrderBy, f.OrderDir),
	}
	if f.Status != "" {
		st := order.Status(f.Status)
		out.Status = &st
	}
	if id, err := uuid.Parse(f.PartyID); err == nil {
		out.PartyID = &id
	}
	return out
}

// StageCountResponse is the number of live orders in one stage
type StageCountResponse = workflow.StageCount
