package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockFigure is what the ledger holds for one product item
type StockFigure struct {
	ItemID    uuid.UUID
	Name      string
	Opening   int64
	Current   int64
	Purchased int64
	Sold      int64
}

// Expected is opening stock plus purchases minus sales
func (f StockFigure) Expected() int64 {
	return f.Opening + f.Purchased - f.Sold
}

// BalanceFigure is what the ledger holds for one party
type BalanceFigure struct {
	PartyID     uuid.UUID
	Name        string
	Opening     decimal.Decimal
	Current     decimal.Decimal
	Sales       decimal.Decimal
	Purchases   decimal.Decimal
	PaymentsIn  decimal.Decimal
	PaymentsOut decimal.Decimal
}

// Expected is the opening balance plus every exposure and payment
// under the receivable-positive convention
func (f BalanceFigure) Expected() decimal.Decimal {
	return f.Opening.
		Add(f.Sales).
		Sub(f.Purchases).
		Sub(f.PaymentsIn).
		Add(f.PaymentsOut)
}

// LedgerReader aggregates the stored documents and transactions
type LedgerReader interface {
	StockFigures(ctx context.Context) ([]StockFigure, error)
	BalanceFigures(ctx context.Context) ([]BalanceFigure, error)
}

// StockDrift is a product whose current stock disagrees with its history
type StockDrift struct {
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	Expected   int64     `json:"expected"`
	Actual     int64     `json:"actual"`
	Difference int64     `json:"difference"`
}

// BalanceDrift is a party whose current balance disagrees with its history
type BalanceDrift struct {
	PartyID    uuid.UUID       `json:"party_id"`
	Name       string          `json:"name"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"`
}

// Report is the outcome of one reconciliation pass
type Report struct {
	CheckedAt      time.Time      `json:"checked_at"`
	ItemsChecked   int            `json:"items_checked"`
	PartiesChecked int            `json:"parties_checked"`
	StockDrift     []StockDrift   `json:"stock_drift"`
	BalanceDrift   []BalanceDrift `json:"balance_drift"`
}

// Clean reports whether no drift was found
func (r *Report) Clean() bool {
	return len(r.StockDrift) == 0 && len(r.BalanceDrift) == 0
}

// DriftRecorder receives the size of every report
type DriftRecorder interface {
	RecordDrift(ctx context.Context, stockDrift, balanceDrift int)
}

// Service recomputes stock and balances from the ledger and reports
// every mismatch. It never writes.
type Service struct {
	reader    LedgerReader
	tolerance decimal.Decimal
	recorder  DriftRecorder
	logger    *zap.Logger
}

// NewService creates a reconciler over reader
func NewService(reader LedgerReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reader:    reader,
		tolerance: decimal.NewFromFloat(0.01),
		logger:    logger,
	}
}

// WithRecorder reports drift counts to r after every pass
func (s *Service) WithRecorder(r DriftRecorder) *Service {
	s.recorder = r
	return s
}

// Run performs one reconciliation pass
func (s *Service) Run(ctx context.Context) (*Report, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconcile", "run")
	defer span.End()

	stock, err := s.reader.StockFigures(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("read stock figures: %w", err)
	}
	balances, err := s.reader.BalanceFigures(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("read balance figures: %w", err)
	}

	report := &Report{
		CheckedAt:      time.Now(),
		ItemsChecked:   len(stock),
		PartiesChecked: len(balances),
		StockDrift:     []StockDrift{},
		BalanceDrift:   []BalanceDrift{},
	}

	for _, f := range stock {
		expected := f.Expected()
		if expected == f.Current {
			continue
		}
		report.StockDrift = append(report.StockDrift, StockDrift{
			ItemID:     f.ItemID,
			Name:       f.Name,
			Expected:   expected,
			Actual:     f.Current,
			Difference: f.Current - expected,
		})
	}

	for _, f := range balances {
		expected := f.Expected()
		diff := f.Current.Sub(expected)
		if diff.Abs().LessThan(s.tolerance) {
			continue
		}
		report.BalanceDrift = append(report.BalanceDrift, BalanceDrift{
			PartyID:    f.PartyID,
			Name:       f.Name,
			Expected:   expected,
			Actual:     f.Current,
			Difference: diff,
		})
	}

	if s.recorder != nil {
		s.recorder.RecordDrift(ctx, len(report.StockDrift), len(report.BalanceDrift))
	}
	if report.Clean() {
		s.logger.Info("ledger reconciled",
			zap.Int("items", report.ItemsChecked),
			zap.Int("parties", report.PartiesChecked),
		)
	} else {
		s.logger.Warn("ledger drift detected",
			zap.Int("stock_drift", len(report.StockDrift)),
			zap.Int("balance_drift", len(report.BalanceDrift)),
		)
	}
	return report, nil
}
