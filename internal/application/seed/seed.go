// Package seed fills an empty ledger with plausible demo data. Every write
// goes through the same services as the API, so the seeded ledger reconciles.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/application/masterdata"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
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

// LedgerWriter is the subset of the coordinator the seeder drives
type LedgerWriter interface {
	CreateDocument(ctx context.Context, kind trade.Kind, draft trade.Draft, actor shared.Actor) (*trade.Document, error)
	CreateOrder(ctx context.Context, partyID uuid.UUID, initial order.Status, details order.Details, actor shared.Actor) (*order.Order, error)
	ChangeOrderStatus(ctx context.Context, id uuid.UUID, status order.Status, note string, actor shared.Actor) (*order.Order, error)
	RecordTransaction(ctx context.Context, in coordinator.TransactionInput, actor shared.Actor) (*finance.Transaction, error)
}

// Config sets how much of each entity to create
type Config struct {
	Items     int
	Parties   int
	Purchases int
	Sales     int
	Orders    int
	Payments  int
	// Seed makes a run reproducible; 0 picks a random seed
	Seed uint64
}

// DefaultConfig is a small shop's first month
func DefaultConfig() Config {
	return Config{Items: 20, Parties: 8, Purchases: 10, Sales: 25, Orders: 6, Payments: 10}
}

// Summary counts what a run created
type Summary struct {
	Items        int `json:"items"`
	Parties      int `json:"parties"`
	Purchases    int `json:"purchases"`
	Sales        int `json:"sales"`
	Orders       int `json:"orders"`
	Transactions int `json:"transactions"`
}

// Seeder writes generated data through the application services
type Seeder struct {
	items   ItemCreator
	parties PartyCreator
	ledger  LedgerWriter
	logger  *zap.Logger
	actor   shared.Actor
}

// New creates a Seeder acting as the system actor
func New(items ItemCreator, parties PartyCreator, ledger LedgerWriter, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{items: items, parties: parties, ledger: ledger, logger: logger, actor: shared.SystemActor}
}

type catalogItem struct {
	id       uuid.UUID
	purchase decimal.Decimal
	sale     decimal.Decimal
}

// Run creates the configured entities. It stops at the first failure and
// returns what was created up to then.
func (s *Seeder) Run(ctx context.Context, cfg Config) (Summary, error) {
	var sum Summary
	if cfg.Parties <= 0 && cfg.Purchases+cfg.Sales+cfg.Orders+cfg.Payments > 0 {
		return sum, fmt.Errorf("documents need at least one party")
	}
	f := gofakeit.New(cfg.Seed)
	batch := f.LetterN(4)

	catalog := make([]catalogItem, 0, cfg.Items)
	for i := 0; i < cfg.Items; i++ {
		purchase := decimal.NewFromFloat(f.Price(10, 500)).Round(2)
		sale := purchase.Mul(decimal.NewFromFloat(f.Float64Range(1.1, 1.6))).Round(2)
		taxRate := decimal.NewFromInt(int64(f.RandomInt([]int{0, 5, 12, 18})))
		item, err := s.items.Create(ctx, masterdata.CreateItemRequest{
			Name:          f.ProductName(),
			Type:          "product",
			Category:      f.ProductCategory(),
			Unit:          f.RandomString([]string{"pcs", "box", "kg", "m"}),
			SalePrice:     &sale,
			PurchasePrice: &purchase,
			TaxRate:       &taxRate,
			OpeningStock:  int64(f.IntRange(0, 50)),
			MinStockLevel: int64(f.IntRange(0, 10)),
		})
		if err != nil {
			return sum, fmt.Errorf("create item: %w", err)
		}
		catalog = append(catalog, catalogItem{id: item.ID, purchase: purchase, sale: sale})
		sum.Items++
	}

	partyIDs := make([]uuid.UUID, 0, cfg.Parties)
	for i := 0; i < cfg.Parties; i++ {
		p, err := s.parties.Create(ctx, masterdata.CreatePartyRequest{
			Name:  f.Company(),
			Type:  f.RandomString([]string{"customer", "supplier", "both"}),
			Phone: f.Numerify("##########"),
			Email: f.Email(),
		})
		if err != nil {
			return sum, fmt.Errorf("create party: %w", err)
		}
		partyIDs = append(partyIDs, p.ID)
		sum.Parties++
	}
	if len(partyIDs) == 0 {
		return sum, nil
	}
	pickParty := func() uuid.UUID { return partyIDs[f.IntRange(0, len(partyIDs)-1)] }

	document := func(kind trade.Kind, n int) error {
		if len(catalog) == 0 {
			return nil
		}
		idx := make([]int, len(catalog))
		for i := range idx {
			idx[i] = i
		}
		f.ShuffleInts(idx)
		lines := make([]trade.LineInput, 0, 3)
		for _, k := range idx[:min(len(idx), f.IntRange(1, 3))] {
			it := catalog[k]
			rate, qty := it.sale, int64(f.IntRange(1, 5))
			if kind == trade.KindPurchase {
				rate, qty = it.purchase, int64(f.IntRange(5, 40))
			}
			lines = append(lines, trade.LineInput{ItemID: it.id, Quantity: qty, Rate: rate})
		}

		prefix := "INV"
		if kind == trade.KindPurchase {
			prefix = "BILL"
		}
		draft := trade.Draft{
			Number:       fmt.Sprintf("%s-%s-%04d", prefix, batch, n),
			PartyID:      pickParty(),
			DocumentDate: f.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
			Lines:        lines,
		}
		// Pay a share of the subtotal; tax keeps some of it outstanding.
		share := decimal.NewFromInt(int64(f.RandomInt([]int{0, 50, 100})))
		draft.PaidAmount = subtotal(lines).Mul(share).Div(decimal.NewFromInt(100)).Round(2)

		if _, err := s.ledger.CreateDocument(ctx, kind, draft, s.actor); err != nil {
			return fmt.Errorf("create %s %s: %w", kind, draft.Number, err)
		}
		return nil
	}

	for i := 1; i <= cfg.Purchases; i++ {
		if err := document(trade.KindPurchase, i); err != nil {
			return sum, err
		}
		sum.Purchases++
	}
	for i := 1; i <= cfg.Sales; i++ {
		if err := document(trade.KindSale, i); err != nil {
			return sum, err
		}
		sum.Sales++
	}

	for i := 1; i <= cfg.Orders; i++ {
		details := order.Details{
			PONumber: fmt.Sprintf("PO-%s-%04d", batch, i),
			PODate:   f.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
			Priority: order.Priority(f.RandomString([]string{string(order.PriorityNormal), string(order.PriorityHigh)})),
			Notes:    f.Sentence(6),
		}
		if len(catalog) > 0 {
			it := catalog[f.IntRange(0, len(catalog)-1)]
			line, err := order.NewLine(it.id, "", decimal.NewFromInt(int64(f.IntRange(10, 200))), "", it.sale, nil)
			if err != nil {
				return sum, err
			}
			details.Lines = []order.Line{line}
		}
		o, err := s.ledger.CreateOrder(ctx, pickParty(), order.StatusNew, details, s.actor)
		if err != nil {
			return sum, fmt.Errorf("create order %s: %w", details.PONumber, err)
		}
		// Walk the order some way down the pipeline
		for _, st := range order.Stages[1 : f.IntRange(1, len(order.Stages))] {
			if _, err := s.ledger.ChangeOrderStatus(ctx, o.ID, st, "", s.actor); err != nil {
				return sum, fmt.Errorf("advance order %s: %w", details.PONumber, err)
			}
		}
		sum.Orders++
	}

	for i := 0; i < cfg.Payments; i++ {
		partyID := pickParty()
		kind := finance.TransactionTypePaymentIn
		if f.Bool() {
			kind = finance.TransactionTypePaymentOut
		}
		_, err := s.ledger.RecordTransaction(ctx, coordinator.TransactionInput{
			Type:            kind,
			PartyID:         &partyID,
			Amount:          decimal.NewFromFloat(f.Price(50, 2000)).Round(2),
			PaymentMode:     finance.PaymentMode(f.RandomString([]string{"cash", "upi", "bank"})),
			TransactionDate: f.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
		}, s.actor)
		if err != nil {
			return sum, fmt.Errorf("record payment: %w", err)
		}
		sum.Transactions++
	}

	s.logger.Info("seeded ledger",
		zap.Int("items", sum.Items),
		zap.Int("parties", sum.Parties),
		zap.Int("purchases", sum.Purchases),
		zap.Int("sales", sum.Sales),
		zap.Int("orders", sum.Orders),
		zap.Int("transactions", sum.Transactions),
	)
	return sum, nil
}

func subtotal(lines []trade.LineInput) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Rate.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}
