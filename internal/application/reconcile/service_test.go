package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) StockFigures(ctx context.Context) ([]StockFigure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StockFigure), args.Error(1)
}

func (m *MockLedgerReader) BalanceFigures(ctx context.Context) ([]BalanceFigure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BalanceFigure), args.Error(1)
}

func TestExpectedFigures(t *testing.T) {
	s := StockFigure{Opening: 10, Purchased: 30, Sold: 12}
	assert.Equal(t, int64(28), s.Expected())

	b := BalanceFigure{
		Opening:     decimal.NewFromInt(100),
		Sales:       decimal.NewFromInt(500),
		Purchases:   decimal.NewFromInt(3000),
		PaymentsIn:  decimal.NewFromInt(200),
		PaymentsOut: decimal.NewFromInt(3000),
	}
	assert.True(t, decimal.NewFromInt(400).Equal(b.Expected()))
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("clean ledger", func(t *testing.T) {
		reader := new(MockLedgerReader)
		reader.On("StockFigures", mock.Anything).Return([]StockFigure{
			{ItemID: uuid.New(), Name: "Bolt", Opening: 5, Current: 35, Purchased: 30},
		}, nil)
		reader.On("BalanceFigures", mock.Anything).Return([]BalanceFigure{
			{PartyID: uuid.New(), Name: "Acme", Current: decimal.NewFromInt(500), Sales: decimal.NewFromInt(500)},
		}, nil)

		core, recorded := observer.New(zapcore.InfoLevel)
		report, err := NewService(reader, zap.New(core)).Run(ctx)
		require.NoError(t, err)

		assert.True(t, report.Clean())
		assert.Equal(t, 1, report.ItemsChecked)
		assert.Equal(t, 1, report.PartiesChecked)
		assert.Equal(t, 1, recorded.FilterMessage("ledger reconciled").Len())
		reader.AssertExpectations(t)
	})

	t.Run("reports stock and balance drift", func(t *testing.T) {
		itemID, partyID := uuid.New(), uuid.New()
		reader := new(MockLedgerReader)
		reader.On("StockFigures", mock.Anything).Return([]StockFigure{
			{ItemID: itemID, Name: "Bolt", Opening: 0, Current: 25, Purchased: 30},
		}, nil)
		reader.On("BalanceFigures", mock.Anything).Return([]BalanceFigure{
			{PartyID: partyID, Name: "Acme", Current: decimal.NewFromInt(700), Sales: decimal.NewFromInt(500)},
		}, nil)

		report, err := NewService(reader, nil).Run(ctx)
		require.NoError(t, err)

		assert.False(t, report.Clean())
		require.Len(t, report.StockDrift, 1)
		assert.Equal(t, itemID, report.StockDrift[0].ItemID)
		assert.Equal(t, int64(30), report.StockDrift[0].Expected)
		assert.Equal(t, int64(-5), report.StockDrift[0].Difference)
		require.Len(t, report.BalanceDrift, 1)
		assert.True(t, decimal.NewFromInt(200).Equal(report.BalanceDrift[0].Difference))
	})

	t.Run("ignores sub-paisa rounding", func(t *testing.T) {
		reader := new(MockLedgerReader)
		reader.On("StockFigures", mock.Anything).Return([]StockFigure{}, nil)
		reader.On("BalanceFigures", mock.Anything).Return([]BalanceFigure{
			{PartyID: uuid.New(), Current: decimal.RequireFromString("100.004"), Sales: decimal.NewFromInt(100)},
		}, nil)

		report, err := NewService(reader, nil).Run(ctx)
		require.NoError(t, err)
		assert.True(t, report.Clean())
	})

	t.Run("propagates reader errors", func(t *testing.T) {
		reader := new(MockLedgerReader)
		reader.On("StockFigures", mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := NewService(reader, nil).Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read stock figures")
	})
}

type driftCounts struct {
	stock, balance int
	calls          int
}

func (d *driftCounts) RecordDrift(_ context.Context, stockDrift, balanceDrift int) {
	d.stock, d.balance = stockDrift, balanceDrift
	d.calls++
}

func TestService_RunRecordsDrift(t *testing.T) {
	reader := new(MockLedgerReader)
	reader.On("StockFigures", mock.Anything).Return([]StockFigure{
		{ItemID: uuid.New(), Current: 3, Purchased: 1},
		{ItemID: uuid.New(), Current: 1, Purchased: 1},
	}, nil)
	reader.On("BalanceFigures", mock.Anything).Return([]BalanceFigure{}, nil)

	recorder := &driftCounts{}
	_, err := NewService(reader, nil).WithRecorder(recorder).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, 1, recorder.stock)
	assert.Equal(t, 0, recorder.balance)
}
