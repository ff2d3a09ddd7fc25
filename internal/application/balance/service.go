package balance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Direction is which way a payment moved money
type Direction string

const (
	// DirectionIn means we received money from the party
	DirectionIn Direction = "in"
	// DirectionOut means we paid the party
	DirectionOut Direction = "out"
)

// Origin returns the balance origin recorded for a payment in this direction
func (d Direction) Origin() partner.BalanceOrigin {
	if d == DirectionOut {
		return partner.OriginPaymentOut
	}
	return partner.OriginPaymentIn
}

// DirectionFor returns the payment direction that settles documents of kind
func DirectionFor(kind trade.Kind) Direction {
	if kind == trade.KindPurchase {
		return DirectionOut
	}
	return DirectionIn
}

// DirectionForPayment returns the direction of a payment transaction type
func DirectionForPayment(t finance.TransactionType) Direction {
	if t == finance.TransactionTypePaymentOut {
		return DirectionOut
	}
	return DirectionIn
}

// DocumentOrigin returns the balance origin for a document kind
func DocumentOrigin(kind trade.Kind) partner.BalanceOrigin {
	if kind == trade.KindPurchase {
		return partner.OriginPurchase
	}
	return partner.OriginSale
}

// DocumentExposure is the balance delta of a document's full value:
// sales raise what the party owes us, purchases raise what we owe them.
func DocumentExposure(kind trade.Kind, total decimal.Decimal) decimal.Decimal {
	if kind == trade.KindPurchase {
		return total.Neg()
	}
	return total
}

// PaymentDelta is the balance delta of a payment. It runs opposite to the
// exposure of the document kind it settles.
func PaymentDelta(direction Direction, amount decimal.Decimal) decimal.Decimal {
	if direction == DirectionOut {
		return amount
	}
	return amount.Neg()
}

// Service applies signed balance deltas to parties
type Service struct {
	parties partner.PartyRepository
	logger  *zap.Logger
}

// NewService creates a balance adjustment service over the given repository
func NewService(parties partner.PartyRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{parties: parties, logger: logger}
}

// ApplyBalanceDelta adds amount to the party's current balance and rederives
// the balance type in the same statement
func (s *Service) ApplyBalanceDelta(ctx context.Context, partyID uuid.UUID, amount decimal.Decimal, origin partner.BalanceOrigin) error {
	if amount.IsZero() {
		return nil
	}
	if err := s.parties.ApplyBalanceDelta(ctx, partyID, amount, origin); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewNotFoundError("PARTY_NOT_FOUND", fmt.Sprintf("Party %s not found", partyID))
		}
		return fmt.Errorf("adjust balance of party %s: %w", partyID, err)
	}
	s.logger.Debug("balance adjusted",
		zap.String("party_id", partyID.String()),
		zap.String("delta", amount.String()),
		zap.String("origin", string(origin)),
	)
	return nil
}

// ReverseBalanceDelta undoes a previously applied delta
func (s *Service) ReverseBalanceDelta(ctx context.Context, partyID uuid.UUID, originalAmount decimal.Decimal, origin partner.BalanceOrigin) error {
	return s.ApplyBalanceDelta(ctx, partyID, originalAmount.Neg(), origin)
}

// ApplyPayment moves the balance opposite to the document the payment settles
func (s *Service) ApplyPayment(ctx context.Context, partyID uuid.UUID, amount decimal.Decimal, direction Direction) error {
	return s.ApplyBalanceDelta(ctx, partyID, PaymentDelta(direction, amount), direction.Origin())
}

// ReversePayment undoes ApplyPayment
func (s *Service) ReversePayment(ctx context.Context, partyID uuid.UUID, amount decimal.Decimal, direction Direction) error {
	return s.ReverseBalanceDelta(ctx, partyID, PaymentDelta(direction, amount), direction.Origin())
}

// ApplyExposure applies the full value of a document to its party
func (s *Service) ApplyExposure(ctx context.Context, doc *trade.Document) error {
	return s.ApplyBalanceDelta(ctx, doc.PartyID, DocumentExposure(doc.Kind, doc.TotalAmount), DocumentOrigin(doc.Kind))
}

// ReverseExposure undoes ApplyExposure for the same document state
func (s *Service) ReverseExposure(ctx context.Context, doc *trade.Document) error {
	return s.ReverseBalanceDelta(ctx, doc.PartyID, DocumentExposure(doc.Kind, doc.TotalAmount), DocumentOrigin(doc.Kind))
}
