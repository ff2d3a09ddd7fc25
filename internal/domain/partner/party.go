package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartyType represents the trading role of a party
type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeSupplier PartyType = "supplier"
	PartyTypeBoth     PartyType = "both"
)

// IsValid returns true if the party type is known
func (t PartyType) IsValid() bool {
	switch t {
	case PartyTypeCustomer, PartyTypeSupplier, PartyTypeBoth:
		return true
	}
	return false
}

// DefaultCountry is applied to addresses without a country
const DefaultCountry = "India"

// Address is a party's billing address
type Address struct {
	Street  string
	City    string
	State   string
	Pincode string
	Country string
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	gstinRegex = regexp.MustCompile(`^[0-9A-Z]{15}$`)
)

// Party is a customer and/or supplier with a running signed balance.
// A positive CurrentBalance means the party owes us.
type Party struct {
	shared.BaseAggregateRoot
	Name           string
	Type           PartyType
	Phone          string
	Email          string
	GSTIN          string
	BillingAddress Address
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	BalanceType    BalanceType
}

// NewParty creates a party whose current balance starts at the opening balance
func NewParty(name string, partyType PartyType, openingBalance decimal.Decimal) (*Party, error) {
	name = strings.TrimSpace(name)
	if err := validatePartyName(name); err != nil {
		return nil, err
	}
	if partyType == "" {
		partyType = PartyTypeCustomer
	}
	if !partyType.IsValid() {
		return nil, shared.NewValidationError("INVALID_PARTY_TYPE", "Party type must be customer, supplier or both")
	}

	p := &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              partyType,
		BillingAddress:    Address{Country: DefaultCountry},
		OpeningBalance:    openingBalance,
		CurrentBalance:    openingBalance,
		BalanceType:       DeriveBalanceType(openingBalance, OriginOpening),
	}
	p.RecordEvent(NewPartyCreatedEvent(p))
	return p, nil
}

func validatePartyName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Party name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Party name cannot exceed 200 characters")
	}
	return nil
}

// Rename changes the party name
func (p *Party) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validatePartyName(name); err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// SetType changes the trading role
func (p *Party) SetType(partyType PartyType) error {
	if !partyType.IsValid() {
		return shared.NewValidationError("INVALID_PARTY_TYPE", "Party type must be customer, supplier or both")
	}
	p.Type = partyType
	p.UpdatedAt = time.Now()
	return nil
}

// SetContact sets phone, email and GSTIN
func (p *Party) SetContact(phone, email, gstin string) error {
	email = strings.TrimSpace(email)
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewValidationError("INVALID_EMAIL", "Invalid email format")
	}
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if gstin != "" && !gstinRegex.MatchString(gstin) {
		return shared.NewValidationError("INVALID_GSTIN", "GSTIN must be 15 alphanumeric characters")
	}
	p.Phone = strings.TrimSpace(phone)
	p.Email = email
	p.GSTIN = gstin
	p.UpdatedAt = time.Now()
	return nil
}

// SetAddress sets the billing address
func (p *Party) SetAddress(addr Address) {
	if strings.TrimSpace(addr.Country) == "" {
		addr.Country = DefaultCountry
	}
	p.BillingAddress = addr
	p.UpdatedAt = time.Now()
}

// ApplyBalanceDelta moves the in-memory balance and rederives its type
func (p *Party) ApplyBalanceDelta(delta decimal.Decimal, origin BalanceOrigin) {
	p.CurrentBalance = p.CurrentBalance.Add(delta)
	p.BalanceType = DeriveBalanceType(p.CurrentBalance, origin)
	p.UpdatedAt = time.Now()
}

// IsCustomer reports whether the party can be billed on sales
func (p *Party) IsCustomer() bool {
	return p.Type == PartyTypeCustomer || p.Type == PartyTypeBoth
}

// IsSupplier reports whether the party can appear on purchases
func (p *Party) IsSupplier() bool {
	return p.Type == PartyTypeSupplier || p.Type == PartyTypeBoth
}
