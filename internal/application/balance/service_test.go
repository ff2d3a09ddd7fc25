package balance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPartyRepository is a mock implementation of partner.PartyRepository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Party), args.Error(1)
}

func (m *MockPartyRepository) FindAll(ctx context.Context, filter partner.PartyFilter) ([]partner.Party, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Party), args.Error(1)
}

func (m *MockPartyRepository) Count(ctx context.Context, filter partner.PartyFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal, origin partner.BalanceOrigin) error {
	args := m.Called(ctx, id, delta.String(), origin)
	return args.Error(0)
}

func (m *MockPartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestDocumentExposure(t *testing.T) {
	total := decimal.NewFromInt(500)
	assert.Equal(t, "500", DocumentExposure(trade.KindSale, total).String())
	assert.Equal(t, "-500", DocumentExposure(trade.KindPurchase, total).String())
}

func TestPaymentDelta(t *testing.T) {
	amount := decimal.NewFromInt(300)
	assert.Equal(t, "-300", PaymentDelta(DirectionIn, amount).String())
	assert.Equal(t, "300", PaymentDelta(DirectionOut, amount).String())
	assert.Equal(t, DirectionOut, DirectionFor(trade.KindPurchase))
	assert.Equal(t, DirectionIn, DirectionFor(trade.KindSale))
}

func TestNetDocumentEffectEqualsBalanceAmount(t *testing.T) {
	for _, kind := range []trade.Kind{trade.KindSale, trade.KindPurchase} {
		total := decimal.NewFromInt(3000)
		paid := decimal.NewFromInt(1200)
		net := DocumentExposure(kind, total).Add(PaymentDelta(DirectionFor(kind), paid))
		assert.True(t, net.Abs().Equal(total.Sub(paid)), string(kind))
	}
}

func TestService_ApplyBalanceDelta(t *testing.T) {
	ctx := context.Background()
	partyID := uuid.New()

	t.Run("delegates with origin", func(t *testing.T) {
		repo := new(MockPartyRepository)
		repo.On("ApplyBalanceDelta", ctx, partyID, "-3000", partner.OriginPurchase).Return(nil).Once()

		require.NoError(t, NewService(repo, nil).ApplyBalanceDelta(ctx, partyID, decimal.NewFromInt(-3000), partner.OriginPurchase))
		repo.AssertExpectations(t)
	})

	t.Run("zero is skipped", func(t *testing.T) {
		repo := new(MockPartyRepository)
		require.NoError(t, NewService(repo, nil).ApplyBalanceDelta(ctx, partyID, decimal.Zero, partner.OriginSale))
		repo.AssertNotCalled(t, "ApplyBalanceDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing party", func(t *testing.T) {
		repo := new(MockPartyRepository)
		repo.On("ApplyBalanceDelta", ctx, partyID, "10", partner.OriginSale).Return(shared.ErrNotFound)

		err := NewService(repo, nil).ApplyBalanceDelta(ctx, partyID, decimal.NewFromInt(10), partner.OriginSale)
		require.Error(t, err)
		assert.Equal(t, "PARTY_NOT_FOUND", err.(*shared.DomainError).Code)
	})
}

func TestService_PaymentsAndExposure(t *testing.T) {
	ctx := context.Background()
	partyID := uuid.New()
	doc := &trade.Document{Kind: trade.KindPurchase, PartyID: partyID, TotalAmount: decimal.NewFromInt(3000)}

	repo := new(MockPartyRepository)
	repo.On("ApplyBalanceDelta", ctx, partyID, "-3000", partner.OriginPurchase).Return(nil).Once()
	repo.On("ApplyBalanceDelta", ctx, partyID, "3000", partner.OriginPaymentOut).Return(nil).Once()
	repo.On("ApplyBalanceDelta", ctx, partyID, "-3000", partner.OriginPaymentOut).Return(nil).Once()
	repo.On("ApplyBalanceDelta", ctx, partyID, "3000", partner.OriginPurchase).Return(nil).Once()

	svc := NewService(repo, nil)
	require.NoError(t, svc.ApplyExposure(ctx, doc))
	require.NoError(t, svc.ApplyPayment(ctx, partyID, decimal.NewFromInt(3000), DirectionOut))
	require.NoError(t, svc.ReversePayment(ctx, partyID, decimal.NewFromInt(3000), DirectionOut))
	require.NoError(t, svc.ReverseExposure(ctx, doc))
	repo.AssertExpectations(t)
}

func TestDirectionForPayment(t *testing.T) {
	assert.Equal(t, DirectionOut, DirectionForPayment(finance.TransactionTypePaymentOut))
	assert.Equal(t, DirectionIn, DirectionForPayment(finance.TransactionTypePaymentIn))
	assert.Equal(t, partner.OriginPaymentOut, DirectionOut.Origin())
}
