package partner

import "github.com/shopspring/decimal"

// BalanceType labels which way a party's balance points
type BalanceType string

const (
	BalanceTypeReceivable BalanceType = "receivable"
	BalanceTypePayable    BalanceType = "payable"
)

// IsValid returns true if the balance type is known
func (b BalanceType) IsValid() bool {
	return b == BalanceTypeReceivable || b == BalanceTypePayable
}

// BalanceOrigin names the operation that last moved a balance.
// It only matters when the balance lands exactly on zero.
type BalanceOrigin string

const (
	OriginOpening    BalanceOrigin = "opening"
	OriginSale       BalanceOrigin = "sale"
	OriginPurchase   BalanceOrigin = "purchase"
	OriginPaymentIn  BalanceOrigin = "payment_in"
	OriginPaymentOut BalanceOrigin = "payment_out"
)

// IsPurchaseSide reports whether the origin belongs to the supplier side
func (o BalanceOrigin) IsPurchaseSide() bool {
	return o == OriginPurchase || o == OriginPaymentOut
}

// DeriveBalanceType is the single rule for labelling a balance:
// positive is receivable, negative is payable, and zero follows the origin
// (sale side receivable, purchase side payable).
func DeriveBalanceType(balance decimal.Decimal, origin BalanceOrigin) BalanceType {
	switch balance.Sign() {
	case 1:
		return BalanceTypeReceivable
	case -1:
		return BalanceTypePayable
	}
	if origin.IsPurchaseSide() {
		return BalanceTypePayable
	}
	return BalanceTypeReceivable
}
