package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind distinguishes sales from purchases. Both share one document shape
// and differ only in the sign of their stock and balance effects.
type Kind string

const (
	KindSale     Kind = "sale"
	KindPurchase Kind = "purchase"
)

// IsValid returns true for sale and purchase
func (k Kind) IsValid() bool {
	return k == KindSale || k == KindPurchase
}

// StockSign is +1 for purchases (goods come in) and -1 for sales
func (k Kind) StockSign() int64 {
	if k == KindPurchase {
		return 1
	}
	return -1
}

// PaymentType is the transaction type of money settled against this kind
func (k Kind) PaymentType() finance.TransactionType {
	if k == KindPurchase {
		return finance.TransactionTypePaymentOut
	}
	return finance.TransactionTypePaymentIn
}

// LinkedType is the document type recorded on linked transactions
func (k Kind) LinkedType() finance.DocumentType {
	if k == KindPurchase {
		return finance.DocumentTypePurchase
	}
	return finance.DocumentTypeSale
}

// Label returns "Sale" or "Purchase"
func (k Kind) Label() string {
	if k == KindPurchase {
		return "Purchase"
	}
	return "Sale"
}

// PaymentStatus is derived from the paid and balance amounts
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// PaymentDetail is one payment received or made when the document was written
type PaymentDetail struct {
	PaymentMode     finance.PaymentMode
	Amount          decimal.Decimal
	ReferenceNumber string
}

// Draft carries the caller-supplied fields of a sale or purchase.
// Totals are always computed, never taken from the caller.
type Draft struct {
	Number         string
	PartyID        uuid.UUID
	StateOfSupply  string
	DocumentDate   time.Time
	DueDate        *time.Time
	RoundOff       decimal.Decimal
	PaidAmount     decimal.Decimal
	Notes          string
	Lines          []LineInput
	PaymentDetails []PaymentDetail
}

// Document is a sale invoice or purchase bill
type Document struct {
	shared.BaseAggregateRoot
	Kind           Kind
	Number         string
	PartyID        uuid.UUID
	StateOfSupply  string
	DocumentDate   time.Time
	DueDate        *time.Time
	Lines          []Line
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	RoundOff       decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	BalanceAmount  decimal.Decimal
	PaymentStatus  PaymentStatus
	PaymentDetails []PaymentDetail
	Notes          string
}

// NewDocument validates a draft and builds a document with computed totals
func NewDocument(kind Kind, d Draft) (*Document, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_DOCUMENT_KIND", "Document kind must be sale or purchase")
	}
	doc := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
	}
	if err := doc.apply(d); err != nil {
		return nil, err
	}
	doc.RecordEvent(NewDocumentEvent(EventCreated, doc))
	return doc, nil
}

// Revise replaces every caller-supplied field and recomputes totals
func (d *Document) Revise(draft Draft) error {
	if err := d.apply(draft); err != nil {
		return err
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	d.RecordEvent(NewDocumentEvent(EventUpdated, d))
	return nil
}

// MarkDeleted records the deletion event; removal is up to the repository
func (d *Document) MarkDeleted() {
	d.RecordEvent(NewDocumentEvent(EventDeleted, d))
}

func (d *Document) apply(draft Draft) error {
	number := strings.TrimSpace(draft.Number)
	if number == "" {
		return shared.NewValidationError("INVALID_DOCUMENT_NUMBER", d.Kind.Label()+" number is required")
	}
	if draft.PartyID == uuid.Nil {
		return shared.NewValidationError("INVALID_PARTY", d.Kind.Label()+" requires a party")
	}
	if len(draft.Lines) == 0 {
		return shared.NewValidationError("NO_LINE_ITEMS", d.Kind.Label()+" must have at least one line item")
	}

	lines := make([]Line, 0, len(draft.Lines))
	for _, in := range draft.Lines {
		line, err := NewLine(in)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	totals := ComputeTotals(lines, draft.RoundOff)
	paid := draft.PaidAmount.Round(2)
	if paid.IsNegative() {
		return shared.NewValidationError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}
	if paid.GreaterThan(totals.Total) {
		return shared.NewValidationError("INVALID_PAID_AMOUNT", "Paid amount cannot exceed the total amount")
	}
	details, err := normalizePaymentDetails(draft.PaymentDetails, paid)
	if err != nil {
		return err
	}

	d.Number = number
	d.PartyID = draft.PartyID
	d.StateOfSupply = strings.TrimSpace(draft.StateOfSupply)
	d.DocumentDate = draft.DocumentDate
	if d.DocumentDate.IsZero() {
		d.DocumentDate = time.Now()
	}
	d.DueDate = draft.DueDate
	d.Notes = strings.TrimSpace(draft.Notes)
	d.Lines = lines
	d.Subtotal = totals.Subtotal
	d.TaxAmount = totals.Tax
	d.RoundOff = draft.RoundOff.Round(2)
	d.TotalAmount = totals.Total
	d.PaidAmount = paid
	d.BalanceAmount = totals.Total.Sub(paid)
	d.PaymentStatus = derivePaymentStatus(paid, d.BalanceAmount)
	d.PaymentDetails = details
	return nil
}

// normalizePaymentDetails checks that details add up to the paid amount.
// With nothing given and a positive paid amount, one cash detail stands in.
func normalizePaymentDetails(details []PaymentDetail, paid decimal.Decimal) ([]PaymentDetail, error) {
	if len(details) == 0 {
		if paid.IsPositive() {
			return []PaymentDetail{{PaymentMode: finance.PaymentModeCash, Amount: paid}}, nil
		}
		return nil, nil
	}

	sum := decimal.Zero
	out := make([]PaymentDetail, 0, len(details))
	for _, pd := range details {
		if pd.PaymentMode == "" {
			pd.PaymentMode = finance.PaymentModeCash
		}
		if !pd.PaymentMode.IsValid() {
			return nil, shared.NewValidationError("INVALID_PAYMENT_MODE", "Invalid payment mode: "+string(pd.PaymentMode))
		}
		if !pd.Amount.IsPositive() {
			return nil, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
		}
		pd.Amount = pd.Amount.Round(2)
		pd.ReferenceNumber = strings.TrimSpace(pd.ReferenceNumber)
		sum = sum.Add(pd.Amount)
		out = append(out, pd)
	}
	if !sum.Equal(paid) {
		return nil, shared.NewValidationError("PAYMENT_MISMATCH", "Payment details must add up to the paid amount")
	}
	return out, nil
}

func derivePaymentStatus(paid, balance decimal.Decimal) PaymentStatus {
	switch {
	case balance.IsZero():
		return PaymentStatusPaid
	case paid.IsZero():
		return PaymentStatusUnpaid
	default:
		return PaymentStatusPartial
	}
}

// LinkedDocument returns the link stamped on this document's payments
func (d *Document) LinkedDocument() finance.LinkedDocument {
	return finance.LinkTo(d.Kind.LinkedType(), d.ID)
}

// ItemIDs returns the distinct items referenced by the lines
func (d *Document) ItemIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(d.Lines))
	ids := make([]uuid.UUID, 0, len(d.Lines))
	for _, l := range d.Lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	return ids
}

// Clone returns a deep copy used to keep the pre-update state for reversal
func (d *Document) Clone() *Document {
	c := *d
	c.Lines = append([]Line(nil), d.Lines...)
	c.PaymentDetails = append([]PaymentDetail(nil), d.PaymentDetails...)
	c.ClearEvents()
	return &c
}
