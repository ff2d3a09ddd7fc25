package catalog

import (
	"strings"
	"time"

	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes stock-tracked products from services
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

// IsValid returns true if the item type is known
func (t ItemType) IsValid() bool {
	return t == ItemTypeProduct || t == ItemTypeService
}

// TracksStock returns true for types whose stock level is maintained
func (t ItemType) TracksStock() bool {
	return t == ItemTypeProduct
}

// DefaultUnit is used when an item is created without a unit
const DefaultUnit = "PCS"

// Item is a product or service that can appear on orders, sales and purchases.
// CurrentStock only changes through stock deltas; direct edits never touch it.
type Item struct {
	shared.BaseAggregateRoot
	Name          string
	ItemCode      string
	Type          ItemType
	Category      string
	Unit          string
	HSNCode       string
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	TaxRate       decimal.Decimal
	OpeningStock  int64
	CurrentStock  int64
	MinStockLevel int64
	Description   string
}

// NewItem creates a new item. openingStock seeds CurrentStock for products
// and is ignored for services.
func NewItem(name string, itemType ItemType, openingStock int64) (*Item, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if itemType == "" {
		itemType = ItemTypeProduct
	}
	if !itemType.IsValid() {
		return nil, shared.NewValidationError("INVALID_ITEM_TYPE", "Item type must be product or service")
	}
	if !itemType.TracksStock() {
		openingStock = 0
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              itemType,
		Unit:              DefaultUnit,
		SalePrice:         decimal.Zero,
		PurchasePrice:     decimal.Zero,
		TaxRate:           decimal.Zero,
		OpeningStock:      openingStock,
		CurrentStock:      openingStock,
	}
	item.RecordEvent(NewItemCreatedEvent(item))
	return item, nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}

// SetPricing sets sale and purchase prices and the tax rate (percent)
func (i *Item) SetPricing(salePrice, purchasePrice, taxRate decimal.Decimal) error {
	if salePrice.IsNegative() || purchasePrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Prices cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	i.SalePrice = salePrice
	i.PurchasePrice = purchasePrice
	i.TaxRate = taxRate
	i.UpdatedAt = time.Now()
	return nil
}

// SetDetails sets descriptive fields. An empty unit falls back to PCS.
func (i *Item) SetDetails(itemCode, category, unit, hsnCode, description string) {
	i.ItemCode = strings.TrimSpace(itemCode)
	i.Category = strings.TrimSpace(category)
	i.HSNCode = strings.TrimSpace(hsnCode)
	i.Description = strings.TrimSpace(description)
	i.Unit = strings.TrimSpace(unit)
	if i.Unit == "" {
		i.Unit = DefaultUnit
	}
	i.UpdatedAt = time.Now()
}

// SetMinStockLevel sets the low-stock threshold
func (i *Item) SetMinStockLevel(level int64) error {
	if level < 0 {
		return shared.NewValidationError("INVALID_QUANTITY", "Minimum stock level cannot be negative")
	}
	i.MinStockLevel = level
	i.UpdatedAt = time.Now()
	return nil
}

// Rename changes the item name
func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	i.Name = name
	i.UpdatedAt = time.Now()
	return nil
}

// TracksStock reports whether stock deltas apply to this item
func (i *Item) TracksStock() bool {
	return i.Type.TracksStock()
}

// IsLowStock reports whether a product is at or below its threshold
func (i *Item) IsLowStock() bool {
	return i.TracksStock() && i.MinStockLevel > 0 && i.CurrentStock <= i.MinStockLevel
}

// ApplyStockDelta adjusts the in-memory stock level.
// Negative results are allowed; stock is not a hard constraint.
func (i *Item) ApplyStockDelta(delta int64) {
	if !i.TracksStock() {
		return
	}
	i.CurrentStock += delta
	i.UpdatedAt = time.Now()
}
