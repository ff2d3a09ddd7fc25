package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParty(t *testing.T) {
	t.Run("current balance starts at opening balance", func(t *testing.T) {
		p, err := NewParty("Abhinav", PartyTypeCustomer, decimal.NewFromInt(2000))
		require.NoError(t, err)

		assert.True(t, p.CurrentBalance.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, BalanceTypeReceivable, p.BalanceType)
		assert.Equal(t, DefaultCountry, p.BillingAddress.Country)
		require.Len(t, p.PendingEvents(), 1)
	})

	t.Run("negative opening balance is payable", func(t *testing.T) {
		p, err := NewParty("Mills Ltd", PartyTypeSupplier, decimal.NewFromInt(-500))
		require.NoError(t, err)
		assert.Equal(t, BalanceTypePayable, p.BalanceType)
	})

	t.Run("defaults to customer", func(t *testing.T) {
		p, err := NewParty("Walk-in", "", decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, PartyTypeCustomer, p.Type)
		assert.True(t, p.IsCustomer())
		assert.False(t, p.IsSupplier())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewParty("", PartyTypeCustomer, decimal.Zero)
		assert.Error(t, err)
		_, err = NewParty("X", "vendor", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestDeriveBalanceType(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		origin  BalanceOrigin
		want    BalanceType
	}{
		{"positive", 10, OriginPurchase, BalanceTypeReceivable},
		{"negative", -10, OriginSale, BalanceTypePayable},
		{"zero after sale", 0, OriginSale, BalanceTypeReceivable},
		{"zero after payment in", 0, OriginPaymentIn, BalanceTypeReceivable},
		{"zero opening", 0, OriginOpening, BalanceTypeReceivable},
		{"zero after purchase", 0, OriginPurchase, BalanceTypePayable},
		{"zero after payment out", 0, OriginPaymentOut, BalanceTypePayable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveBalanceType(decimal.NewFromInt(tt.balance), tt.origin))
		})
	}
}

func TestParty_ApplyBalanceDelta(t *testing.T) {
	p, _ := NewParty("Mills Ltd", PartyTypeSupplier, decimal.Zero)

	p.ApplyBalanceDelta(decimal.NewFromInt(-3000), OriginPurchase)
	assert.True(t, p.CurrentBalance.Equal(decimal.NewFromInt(-3000)))
	assert.Equal(t, BalanceTypePayable, p.BalanceType)

	p.ApplyBalanceDelta(decimal.NewFromInt(3000), OriginPaymentOut)
	assert.True(t, p.CurrentBalance.IsZero())
	assert.Equal(t, BalanceTypePayable, p.BalanceType)
}

func TestParty_SetContact(t *testing.T) {
	p, _ := NewParty("Abhinav", PartyTypeBoth, decimal.Zero)

	require.NoError(t, p.SetContact(" 98765 ", "a@example.com", "27aapfu0939f1zv"))
	assert.Equal(t, "98765", p.Phone)
	assert.Equal(t, "27AAPFU0939F1ZV", p.GSTIN)

	assert.Error(t, p.SetContact("", "not-an-email", ""))
	assert.Error(t, p.SetContact("", "", "short"))
}

func TestParty_SetAddress(t *testing.T) {
	p, _ := NewParty("Abhinav", PartyTypeCustomer, decimal.Zero)
	p.SetAddress(Address{City: "Pune"})
	assert.Equal(t, DefaultCountry, p.BillingAddress.Country)
	assert.Equal(t, "Pune", p.BillingAddress.City)
}
