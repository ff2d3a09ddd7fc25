package csvimport

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sharadhiadiga/Elint/internal/application/masterdata"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemCreator creates catalog items
type ItemCreator interface {
	Create(ctx context.Context, req masterdata.CreateItemRequest) (*masterdata.ItemResponse, error)
}

// PartyCreator creates parties
type PartyCreator interface {
	Create(ctx context.Context, req masterdata.CreatePartyRequest) (*masterdata.PartyResponse, error)
}

// ItemRules are the columns of an item file
var ItemRules = []FieldRule{
	Field("name").Required().MaxLength(200).Unique().Build(),
	Field("item_code").MaxLength(50).Unique().Build(),
	Field("type").OneOf("product", "service").Build(),
	Field("category").MaxLength(100).Build(),
	Field("unit").MaxLength(20).Build(),
	Field("hsn_code").MaxLength(20).Build(),
	Field("sale_price").Decimal().NonNegative().Build(),
	Field("purchase_price").Decimal().NonNegative().Build(),
	Field("tax_rate").Decimal().NonNegative().Build(),
	Field("opening_stock").Int().Build(),
	Field("min_stock_level").Int().NonNegative().Build(),
	Field("description").MaxLength(2000).Build(),
}

// PartyRules are the columns of a party file
var PartyRules = []FieldRule{
	Field("name").Required().MaxLength(200).Unique().Build(),
	Field("type").OneOf("customer", "supplier", "both").Build(),
	Field("phone").MaxLength(20).Build(),
	Field("email").Email().Build(),
	Field("gstin").Length(15).Unique().Build(),
	Field("opening_balance").Decimal().Build(),
	Field("street").MaxLength(300).Build(),
	Field("city").MaxLength(100).Build(),
	Field("state").MaxLength(100).Build(),
	Field("pincode").MaxLength(10).Build(),
	Field("country").MaxLength(100).Build(),
}

// Options controls an import run
type Options struct {
	// DryRun validates without writing
	DryRun bool
	// SkipInvalid writes the valid rows even when others fail validation
	SkipInvalid bool
	MaxRows     int
	MaxErrors   int
	Delimiter   rune
}

// DefaultOptions allows 10 000 rows and reports up to 100 errors
func DefaultOptions() Options {
	return Options{MaxRows: 10000, MaxErrors: 100}
}

// Result summarizes an import run
type Result struct {
	Total   int        `json:"total"`
	Valid   int        `json:"valid"`
	Created int        `json:"created"`
	Errors  []RowError `json:"errors,omitempty"`
	// ErrorCount includes errors left out of Errors
	ErrorCount int  `json:"error_count"`
	DryRun     bool `json:"dry_run"`
}

// Importer creates items and parties from CSV rows through the masterdata services
type Importer struct {
	items   ItemCreator
	parties PartyCreator
	logger  *zap.Logger
}

// NewImporter creates an Importer
func NewImporter(items ItemCreator, parties PartyCreator, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{items: items, parties: parties, logger: logger.Named("csv-import")}
}

// ImportItems validates r against ItemRules and creates one item per row
func (im *Importer) ImportItems(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	return im.run(ctx, r, opts, ItemRules, func(ctx context.Context, row *Row) error {
		_, err := im.items.Create(ctx, itemRequest(row))
		return err
	})
}

// ImportParties validates r against PartyRules and creates one party per row
func (im *Importer) ImportParties(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	return im.run(ctx, r, opts, PartyRules, func(ctx context.Context, row *Row) error {
		_, err := im.parties.Create(ctx, partyRequest(row))
		return err
	})
}

func (im *Importer) run(ctx context.Context, r io.Reader, opts Options, rules []FieldRule, create func(context.Context, *Row) error) (*Result, error) {
	var parserOpts []ParserOption
	if opts.Delimiter != 0 {
		parserOpts = append(parserOpts, WithDelimiter(opts.Delimiter))
	}
	parser, err := NewParser(r, parserOpts...)
	if err != nil {
		return nil, err
	}
	validator := NewRowValidator(rules)
	if missing := parser.Missing(validator.RequiredColumns()); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrInvalidHeader, strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		return nil, fmt.Errorf("%w: %d rows, limit is %d", ErrTooManyRows, len(rows), opts.MaxRows)
	}

	errs := NewErrorCollection(opts.MaxErrors)
	valid := make([]*Row, 0, len(rows))
	for _, row := range rows {
		if validator.Validate(row, errs) {
			valid = append(valid, row)
		}
	}

	result := &Result{Total: len(rows), Valid: len(valid), DryRun: opts.DryRun}
	write := !opts.DryRun && (opts.SkipInvalid || !errs.HasErrors())
	if write {
		for _, row := range valid {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := create(ctx, row); err != nil {
				errs.Add(RowError{Line: row.Line, Code: ErrCodeCreateFailed, Message: err.Error()})
				continue
			}
			result.Created++
		}
	}
	result.Errors = errs.Errors()
	result.ErrorCount = errs.Total()

	im.logger.Info("CSV import finished",
		zap.Int("total", result.Total),
		zap.Int("valid", result.Valid),
		zap.Int("created", result.Created),
		zap.Int("errors", result.ErrorCount),
		zap.Bool("dry_run", opts.DryRun),
	)
	return result, nil
}

func itemRequest(row *Row) masterdata.CreateItemRequest {
	return masterdata.CreateItemRequest{
		Name:          row.Get("name"),
		ItemCode:      row.Get("item_code"),
		Type:          strings.ToLower(row.Get("type")),
		Category:      row.Get("category"),
		Unit:          row.Get("unit"),
		HSNCode:       row.Get("hsn_code"),
		SalePrice:     decimalPtr(row.Get("sale_price")),
		PurchasePrice: decimalPtr(row.Get("purchase_price")),
		TaxRate:       decimalPtr(row.Get("tax_rate")),
		OpeningStock:  parseInt(row.Get("opening_stock")),
		MinStockLevel: parseInt(row.Get("min_stock_level")),
		Description:   row.Get("description"),
	}
}

func partyRequest(row *Row) masterdata.CreatePartyRequest {
	req := masterdata.CreatePartyRequest{
		Name:           row.Get("name"),
		Type:           strings.ToLower(row.Get("type")),
		Phone:          row.Get("phone"),
		Email:          row.Get("email"),
		GSTIN:          strings.ToUpper(row.Get("gstin")),
		OpeningBalance: decimalPtr(row.Get("opening_balance")),
	}
	addr := masterdata.AddressRequest{
		Street:  row.Get("street"),
		City:    row.Get("city"),
		State:   row.Get("state"),
		Pincode: row.Get("pincode"),
		Country: row.Get("country"),
	}
	if addr != (masterdata.AddressRequest{}) {
		req.BillingAddress = &addr
	}
	return req
}

// Values reaching these helpers have already been validated
func decimalPtr(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
