package trade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType selects how DiscountValue is read
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

var hundred = decimal.NewFromInt(100)

// LineInput is a caller-supplied line before amounts are computed
type LineInput struct {
	ItemID        uuid.UUID
	Description   string
	Quantity      int64
	Unit          string
	Rate          decimal.Decimal
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	TaxRate       decimal.Decimal
}

// Line is a document line with server-computed amounts
type Line struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	Description    string
	Quantity       int64
	Unit           string
	Rate           decimal.Decimal
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	Amount         decimal.Decimal
}

// NewLine validates the input and computes the line amounts:
// gross = rate x qty, taxable = gross - discount, tax = taxable x rate / 100,
// amount = taxable + tax. Every amount is rounded to 2 places.
func NewLine(in LineInput) (Line, error) {
	if in.ItemID == uuid.Nil {
		return Line{}, shared.NewValidationError("INVALID_ITEM", "Line item requires an item")
	}
	if in.Quantity <= 0 {
		return Line{}, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.Rate.IsNegative() {
		return Line{}, shared.NewValidationError("INVALID_PRICE", "Rate cannot be negative")
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return Line{}, shared.NewValidationError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if in.DiscountType == "" {
		in.DiscountType = DiscountPercentage
	}
	if in.DiscountValue.IsNegative() {
		return Line{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	gross := in.Rate.Mul(decimal.NewFromInt(in.Quantity))
	var discount decimal.Decimal
	switch in.DiscountType {
	case DiscountPercentage:
		if in.DiscountValue.GreaterThan(hundred) {
			return Line{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount percentage cannot exceed 100")
		}
		discount = gross.Mul(in.DiscountValue).Div(hundred)
	case DiscountFlat:
		discount = in.DiscountValue
	default:
		return Line{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount type must be percentage or flat")
	}
	discount = discount.Round(2)
	if discount.GreaterThan(gross.Round(2)) {
		return Line{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot exceed the line value")
	}

	taxable := gross.Sub(discount).Round(2)
	tax := taxable.Mul(in.TaxRate).Div(hundred).Round(2)

	return Line{
		ID:             uuid.New(),
		ItemID:         in.ItemID,
		Description:    strings.TrimSpace(in.Description),
		Quantity:       in.Quantity,
		Unit:           strings.TrimSpace(in.Unit),
		Rate:           in.Rate,
		DiscountType:   in.DiscountType,
		DiscountValue:  in.DiscountValue,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		TaxRate:        in.TaxRate,
		TaxAmount:      tax,
		Amount:         taxable.Add(tax),
	}, nil
}

// Totals is the document-level roll-up of its lines
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums the lines: subtotal is taxable amounts, total adds tax
// and the round-off.
func ComputeTotals(lines []Line, roundOff decimal.Decimal) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.TaxableAmount)
		tax = tax.Add(l.TaxAmount)
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Add(roundOff.Round(2)),
	}
}

// RoundingTolerance bounds the difference between a document total and its
// line amounts plus round-off
var RoundingTolerance = decimal.RequireFromString("0.01")

// Reconciles reports whether the total matches the line amounts within tolerance
func (d *Document) Reconciles() bool {
	sum := decimal.Zero
	for _, l := range d.Lines {
		sum = sum.Add(l.Amount)
	}
	return d.TotalAmount.Sub(sum).Sub(d.RoundOff).Abs().LessThanOrEqual(RoundingTolerance)
}
