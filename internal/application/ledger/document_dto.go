// Package ledger holds the request and response shapes of the ledger API and
// the read side for sales, purchases, orders and transactions.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// DocumentLineRequest is one line of a sale or purchase
type DocumentLineRequest struct {
	ItemID        uuid.UUID        `json:"item_id" binding:"required"`
	Description   string           `json:"description" binding:"max=500"`
	Quantity      int64            `json:"quantity" binding:"required,gt=0"`
	Unit          string           `json:"unit" binding:"max=20"`
	Rate          decimal.Decimal  `json:"rate" binding:"gte=0"`
	DiscountType  string           `json:"discount_type" binding:"omitempty,discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value" binding:"omitempty,gte=0"`
	TaxRate       *decimal.Decimal `json:"tax_rate" binding:"omitempty,gte=0,lte=100"`
}

// PaymentDetailRequest is one payment received or made with the document
type PaymentDetailRequest struct {
	PaymentMode     string          `json:"payment_mode" binding:"omitempty,payment_mode"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
}

// DocumentRequest creates or replaces a sale or purchase.
// Totals are computed by the server and cannot be supplied.
type DocumentRequest struct {
	Number         string                 `json:"number" binding:"required,max=50"`
	PartyID        uuid.UUID              `json:"party_id" binding:"required"`
	StateOfSupply  string                 `json:"state_of_supply" binding:"max=100"`
	DocumentDate   *time.Time             `json:"document_date"`
	DueDate        *time.Time             `json:"due_date"`
	RoundOff       *decimal.Decimal       `json:"round_off"`
	PaidAmount     *decimal.Decimal       `json:"paid_amount" binding:"omitempty,gte=0"`
	Notes          string                 `json:"notes" binding:"max=2000"`
	Lines          []DocumentLineRequest  `json:"lines" binding:"required,min=1,dive"`
	PaymentDetails []PaymentDetailRequest `json:"payment_details" binding:"omitempty,dive"`
	// Version is the version the caller last read; required on update
	Version int `json:"version" binding:"omitempty,min=1"`
}

// ToDraft converts the request into a domain draft
func (r DocumentRequest) ToDraft() trade.Draft {
	d := trade.Draft{
		Number:        r.Number,
		PartyID:       r.PartyID,
		StateOfSupply: r.StateOfSupply,
		DueDate:       r.DueDate,
		RoundOff:      orZero(r.RoundOff),
		PaidAmount:    orZero(r.PaidAmount),
		Notes:         r.Notes,
		Lines:         make([]trade.LineInput, 0, len(r.Lines)),
	}
	if r.DocumentDate != nil {
		d.DocumentDate = *r.DocumentDate
	} else {
		d.DocumentDate = time.Now()
	}
	for _, l := range r.Lines {
		d.Lines = append(d.Lines, trade.LineInput{
			ItemID:        l.ItemID,
			Description:   l.Description,
			Quantity:      l.Quantity,
			Unit:          l.Unit,
			Rate:          l.Rate,
			DiscountType:  trade.DiscountType(l.DiscountType),
			DiscountValue: orZero(l.DiscountValue),
			TaxRate:       orZero(l.TaxRate),
		})
	}
	for _, p := range r.PaymentDetails {
		d.PaymentDetails = append(d.PaymentDetails, trade.PaymentDetail{
			PaymentMode:     finance.PaymentMode(p.PaymentMode),
			Amount:          p.Amount,
			ReferenceNumber: p.ReferenceNumber,
		})
	}
	return d
}

// DocumentLineResponse is a line with its computed amounts
type DocumentLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Description    string          `json:"description"`
	Quantity       int64           `json:"quantity"`
	Unit           string          `json:"unit"`
	Rate           decimal.Decimal `json:"rate"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Amount         decimal.Decimal `json:"amount"`
}

// PaymentDetailResponse is a stored payment detail
type PaymentDetailResponse struct {
	PaymentMode     string          `json:"payment_mode"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"reference_number"`
}

// DocumentResponse represents a sale or purchase in API responses
type DocumentResponse struct {
	ID             uuid.UUID               `json:"id"`
	Kind           string                  `json:"kind"`
	Number         string                  `json:"number"`
	PartyID        uuid.UUID               `json:"party_id"`
	StateOfSupply  string                  `json:"state_of_supply"`
	DocumentDate   time.Time               `json:"document_date"`
	DueDate        *time.Time              `json:"due_date,omitempty"`
	Lines          []DocumentLineResponse  `json:"lines"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	TaxAmount      decimal.Decimal         `json:"tax_amount"`
	RoundOff       decimal.Decimal         `json:"round_off"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	PaidAmount     decimal.Decimal         `json:"paid_amount"`
	BalanceAmount  decimal.Decimal         `json:"balance_amount"`
	PaymentStatus  string                  `json:"payment_status"`
	PaymentDetails []PaymentDetailResponse `json:"payment_details"`
	Notes          string                  `json:"notes"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Version        int                     `json:"version"`
}

// ToDocumentResponse converts a domain document
func ToDocumentResponse(d *trade.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:             d.ID,
		Kind:           string(d.Kind),
		Number:         d.Number,
		PartyID:        d.PartyID,
		StateOfSupply:  d.StateOfSupply,
		DocumentDate:   d.DocumentDate,
		DueDate:        d.DueDate,
		Lines:          make([]DocumentLineResponse, 0, len(d.Lines)),
		Subtotal:       d.Subtotal,
		TaxAmount:      d.TaxAmount,
		RoundOff:       d.RoundOff,
		TotalAmount:    d.TotalAmount,
		PaidAmount:     d.PaidAmount,
		BalanceAmount:  d.BalanceAmount,
		PaymentStatus:  string(d.PaymentStatus),
		PaymentDetails: make([]PaymentDetailResponse, 0, len(d.PaymentDetails)),
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Version:        d.Version,
	}
	for _, l := range d.Lines {
		resp.Lines = append(resp.Lines, DocumentLineResponse{
			ID:             l.ID,
			ItemID:         l.ItemID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			Unit:           l.Unit,
			Rate:           l.Rate,
			DiscountType:   string(l.DiscountType),
			DiscountValue:  l.DiscountValue,
			DiscountAmount: l.DiscountAmount,
			TaxableAmount:  l.TaxableAmount,
			TaxRate:        l.TaxRate,
			TaxAmount:      l.TaxAmount,
			Amount:         l.Amount,
		})
	}
	for _, p := range d.PaymentDetails {
		resp.PaymentDetails = append(resp.PaymentDetails, PaymentDetailResponse{
			PaymentMode:     string(p.PaymentMode),
			Amount:          p.Amount,
			ReferenceNumber: p.ReferenceNumber,
		})
	}
	return resp
}

// DocumentListFilter represents filter options for sale and purchase lists
type DocumentListFilter struct {
	Search        string     `form:"search"`
	PartyID       string     `form:"party_id" binding:"omitempty,uuid"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=paid partial unpaid"`
	FromDate      *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate        *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f DocumentListFilter) toDomain() trade.DocumentFilter {
	out := trade.DocumentFilter{
		Filter:   pageFilter(f.Search, f.Page, f.PageSize, f.OrderBy, f.OrderDir),
		FromDate: f.FromDate,
		ToDate:   f.ToDate,
	}
	if id, err := uuid.Parse(f.PartyID); err == nil {
		out.PartyID = &id
	}
	if f.PaymentStatus != "" {
		st := trade.PaymentStatus(f.PaymentStatus)
		out.PaymentStatus = &st
	}
	return out
}

func pageFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = search
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f.Normalize()
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
