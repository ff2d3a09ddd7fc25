package models

import (
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ItemModel is the persistence model for the Item aggregate root.
type ItemModel struct {
	AggregateModel
	Name          string           `gorm:"type:varchar(200);not null;index"`
	ItemCode      *string          `gorm:"type:varchar(50);uniqueIndex"`
	Type          catalog.ItemType `gorm:"type:varchar(20);not null;default:'product'"`
	Category      string           `gorm:"type:varchar(100)"`
	Unit          string           `gorm:"type:varchar(20);not null;default:'PCS'"`
	HSNCode       string           `gorm:"type:varchar(20)"`
	SalePrice     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	PurchasePrice decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate       decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	OpeningStock  int64            `gorm:"not null;default:0"`
	CurrentStock  int64            `gorm:"not null;default:0"`
	MinStockLevel int64            `gorm:"not null;default:0"`
	Description   string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *catalog.Item {
	item := &catalog.Item{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		Category:          m.Category,
		Unit:              m.Unit,
		HSNCode:           m.HSNCode,
		SalePrice:         m.SalePrice,
		PurchasePrice:     m.PurchasePrice,
		TaxRate:           m.TaxRate,
		OpeningStock:      m.OpeningStock,
		CurrentStock:      m.CurrentStock,
		MinStockLevel:     m.MinStockLevel,
		Description:       m.Description,
	}
	if m.ItemCode != nil {
		item.ItemCode = *m.ItemCode
	}
	return item
}

// FromDomain populates the persistence model from a domain Item.
// An empty item code is stored as NULL so it stays out of the unique index.
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Name = i.Name
	m.ItemCode = nil
	if i.ItemCode != "" {
		code := i.ItemCode
		m.ItemCode = &code
	}
	m.Type = i.Type
	m.Category = i.Category
	m.Unit = i.Unit
	m.HSNCode = i.HSNCode
	m.SalePrice = i.SalePrice
	m.PurchasePrice = i.PurchasePrice
	m.TaxRate = i.TaxRate
	m.OpeningStock = i.OpeningStock
	m.CurrentStock = i.CurrentStock
	m.MinStockLevel = i.MinStockLevel
	m.Description = i.Description
}

// ItemModelFromDomain creates a new persistence model from a domain Item
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
