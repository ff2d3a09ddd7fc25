package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	NoteOrderCreated  = "Order Created"
	NoteStatusChanged = "Status changed"
	NoteOrderDeleted  = "Order Deleted"
)

// HistoryEntry is one immutable record in an order's status history
type HistoryEntry struct {
	Status    Status
	Note      string
	ChangedBy string
	Timestamp time.Time
}

// Line is an order line. Amount is always quantity x rate.
type Line struct {
	ID           uuid.UUID
	ItemID       uuid.UUID
	ItemName     string
	Quantity     decimal.Decimal
	Unit         string
	Rate         decimal.Decimal
	Amount       decimal.Decimal
	DeliveryDate *time.Time
}

// NewLine creates an order line and computes its amount
func NewLine(itemID uuid.UUID, itemName string, quantity decimal.Decimal, unit string, rate decimal.Decimal, deliveryDate *time.Time) (Line, error) {
	if itemID == uuid.Nil {
		return Line{}, shared.NewValidationError("INVALID_ITEM", "Order line requires an item")
	}
	if !quantity.IsPositive() {
		return Line{}, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return Line{}, shared.NewValidationError("INVALID_PRICE", "Rate cannot be negative")
	}
	return Line{
		ID:           uuid.New(),
		ItemID:       itemID,
		ItemName:     strings.TrimSpace(itemName),
		Quantity:     quantity,
		Unit:         strings.TrimSpace(unit),
		Rate:         rate,
		Amount:       quantity.Mul(rate).Round(2),
		DeliveryDate: deliveryDate,
	}, nil
}

// Details holds the editable, non-workflow fields of an order
type Details struct {
	PONumber              string
	PODate                time.Time
	EstimatedDeliveryDate *time.Time
	Priority              Priority
	Notes                 string
	Lines                 []Line
}

// Order is a customer purchase order moving through the production workflow
type Order struct {
	shared.BaseAggregateRoot
	PartyID               uuid.UUID
	PONumber              string
	PODate                time.Time
	EstimatedDeliveryDate *time.Time
	Status                Status
	Priority              Priority
	Lines                 []Line
	TotalAmount           decimal.Decimal
	Notes                 string
	History               []HistoryEntry
}

// NewOrder creates an order in its initial status with the synthetic
// "Order Created" history entry. An empty status means New.
func NewOrder(partyID uuid.UUID, initial Status, details Details, actor shared.Actor) (*Order, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PARTY", "Order requires a party")
	}
	if initial == "" {
		initial = StatusNew
	}
	if !initial.IsStage() {
		return nil, shared.NewValidationError("INVALID_STATUS", "Invalid initial order status")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartyID:           partyID,
		Status:            initial,
	}
	if err := o.applyDetails(details); err != nil {
		return nil, err
	}
	o.History = []HistoryEntry{{
		Status:    initial,
		Note:      NoteOrderCreated,
		ChangedBy: actor.ID,
		Timestamp: o.CreatedAt,
	}}
	o.RecordEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// ChangeStatus moves the order to target and appends one history entry.
// An empty note becomes "Status changed".
func (o *Order) ChangeStatus(target Status, note string, actor shared.Actor) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Invalid order status: "+string(target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewValidationError("ORDER_DELETED", "Order has been deleted and can no longer change status")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		note = NoteStatusChanged
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.History = append(o.History, HistoryEntry{
		Status:    target,
		Note:      note,
		ChangedBy: actor.ID,
		Timestamp: now,
	})
	o.UpdatedAt = now
	o.IncrementVersion()
	o.RecordEvent(NewOrderStatusChangedEvent(o, from, note, actor.ID))
	return nil
}

// MarkDeleted soft-deletes the order through the workflow
func (o *Order) MarkDeleted(actor shared.Actor) error {
	return o.ChangeStatus(StatusDeleted, NoteOrderDeleted, actor)
}

// UpdateDetails replaces the editable fields and recomputes the total.
// History is untouched.
func (o *Order) UpdateDetails(details Details) error {
	if o.Status.IsTerminal() {
		return shared.NewValidationError("ORDER_DELETED", "Deleted orders cannot be edited")
	}
	if err := o.applyDetails(details); err != nil {
		return err
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

func (o *Order) applyDetails(d Details) error {
	poNumber := strings.TrimSpace(d.PONumber)
	if poNumber == "" {
		return shared.NewValidationError("INVALID_PO_NUMBER", "PO number is required")
	}
	if d.Priority == "" {
		d.Priority = PriorityNormal
	}
	if !d.Priority.IsValid() {
		return shared.NewValidationError("INVALID_PRIORITY", "Priority must be Normal or High")
	}
	if d.PODate.IsZero() {
		d.PODate = time.Now()
	}
	for _, l := range d.Lines {
		if !l.Quantity.IsPositive() {
			return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
		}
	}

	o.PONumber = poNumber
	o.PODate = d.PODate
	o.EstimatedDeliveryDate = d.EstimatedDeliveryDate
	o.Priority = d.Priority
	o.Notes = strings.TrimSpace(d.Notes)
	o.Lines = d.Lines
	o.recalculateTotal()
	return nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].Amount = o.Lines[i].Quantity.Mul(o.Lines[i].Rate).Round(2)
		total = total.Add(o.Lines[i].Amount)
	}
	o.TotalAmount = total
}

// IsDeleted reports whether the order was soft-deleted
func (o *Order) IsDeleted() bool {
	return o.Status == StatusDeleted
}

// LastHistoryEntry returns the most recent history entry
func (o *Order) LastHistoryEntry() HistoryEntry {
	if len(o.History) == 0 {
		return HistoryEntry{}
	}
	return o.History[len(o.History)-1]
}
