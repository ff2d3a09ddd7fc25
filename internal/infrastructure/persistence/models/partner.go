package models

import (
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// PartyModel is the persistence model for the Party aggregate root.
// The billing address is flattened into prefixed columns.
type PartyModel struct {
	AggregateModel
	Name           string              `gorm:"type:varchar(200);not null;index"`
	Type           partner.PartyType   `gorm:"type:varchar(20);not null;default:'customer';index"`
	Phone          string              `gorm:"type:varchar(50);index"`
	Email          string              `gorm:"type:varchar(200)"`
	GSTIN          string              `gorm:"column:gstin;type:varchar(15)"`
	BillingStreet  string              `gorm:"type:varchar(300)"`
	BillingCity    string              `gorm:"type:varchar(100)"`
	BillingState   string              `gorm:"type:varchar(100)"`
	BillingPincode string              `gorm:"type:varchar(20)"`
	BillingCountry string              `gorm:"type:varchar(100);not null;default:'India'"`
	OpeningBalance decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceType    partner.BalanceType `gorm:"type:varchar(20);not null;default:'receivable'"`
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// ToDomain converts the persistence model to a domain Party
func (m *PartyModel) ToDomain() *partner.Party {
	return &partner.Party{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		Phone:             m.Phone,
		Email:             m.Email,
		GSTIN:             m.GSTIN,
		BillingAddress: partner.Address{
			Street:  m.BillingStreet,
			City:    m.BillingCity,
			State:   m.BillingState,
			Pincode: m.BillingPincode,
			Country: m.BillingCountry,
		},
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		BalanceType:    m.BalanceType,
	}
}

// FromDomain populates the persistence model from a domain Party
func (m *PartyModel) FromDomain(p *partner.Party) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.Phone = p.Phone
	m.Email = p.Email
	m.GSTIN = p.GSTIN
	m.BillingStreet = p.BillingAddress.Street
	m.BillingCity = p.BillingAddress.City
	m.BillingState = p.BillingAddress.State
	m.BillingPincode = p.BillingAddress.Pincode
	m.BillingCountry = p.BillingAddress.Country
	m.OpeningBalance = p.OpeningBalance
	m.CurrentBalance = p.CurrentBalance
	m.BalanceType = p.BalanceType
}

// PartyModelFromDomain creates a new persistence model from a domain Party
func PartyModelFromDomain(p *partner.Party) *PartyModel {
	m := &PartyModel{}
	m.FromDomain(p)
	return m
}
