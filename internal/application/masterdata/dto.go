package masterdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/catalog"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create a new item
type CreateItemRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	ItemCode      string           `json:"item_code" binding:"max=50"`
	Type          string           `json:"type" binding:"omitempty,oneof=product service"`
	Category      string           `json:"category" binding:"max=100"`
	Unit          string           `json:"unit" binding:"max=20"`
	HSNCode       string           `json:"hsn_code" binding:"max=20"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	OpeningStock  int64            `json:"opening_stock"`
	MinStockLevel int64            `json:"min_stock_level" binding:"min=0"`
	Description   string           `json:"description" binding:"max=2000"`
}

// UpdateItemRequest represents a request to update an item.
// Stock figures are not editable here.
type UpdateItemRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ItemCode      *string          `json:"item_code" binding:"omitempty,max=50"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Unit          *string          `json:"unit" binding:"omitempty,max=20"`
	HSNCode       *string          `json:"hsn_code" binding:"omitempty,max=20"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	MinStockLevel *int64           `json:"min_stock_level" binding:"omitempty,min=0"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	ItemCode      string          `json:"item_code"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	HSNCode       string          `json:"hsn_code"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	OpeningStock  int64           `json:"opening_stock"`
	CurrentStock  int64           `json:"current_stock"`
	MinStockLevel int64           `json:"min_stock_level"`
	LowStock      bool            `json:"low_stock"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=product service"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(i *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:            i.ID,
		Name:          i.Name,
		ItemCode:      i.ItemCode,
		Type:          string(i.Type),
		Category:      i.Category,
		Unit:          i.Unit,
		HSNCode:       i.HSNCode,
		SalePrice:     i.SalePrice,
		PurchasePrice: i.PurchasePrice,
		TaxRate:       i.TaxRate,
		OpeningStock:  i.OpeningStock,
		CurrentStock:  i.CurrentStock,
		MinStockLevel: i.MinStockLevel,
		LowStock:      i.IsLowStock(),
		Description:   i.Description,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
		Version:       i.Version,
	}
}

// AddressRequest is a billing address in requests and responses
type AddressRequest struct {
	Street  string `json:"street" binding:"max=300"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	Pincode string `json:"pincode" binding:"max=10"`
	Country string `json:"country" binding:"max=100"`
}

func (a AddressRequest) toDomain() partner.Address {
	return partner.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Pincode: a.Pincode,
		Country: a.Country,
	}
}

// CreatePartyRequest represents a request to create a new party
type CreatePartyRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Type           string           `json:"type" binding:"omitempty,oneof=customer supplier both"`
	Phone          string           `json:"phone" binding:"max=20"`
	Email          string           `json:"email" binding:"omitempty,email"`
	GSTIN          string           `json:"gstin" binding:"omitempty,len=15"`
	BillingAddress *AddressRequest  `json:"billing_address"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
}

// UpdatePartyRequest represents a request to update a party.
// Balances are not editable here.
type UpdatePartyRequest struct {
	Name           *string         `json:"name" binding:"omitempty,min=1,max=200"`
	Type           *string         `json:"type" binding:"omitempty,oneof=customer supplier both"`
	Phone          *string         `json:"phone" binding:"omitempty,max=20"`
	Email          *string         `json:"email" binding:"omitempty,email"`
	GSTIN          *string         `json:"gstin" binding:"omitempty,len=15"`
	BillingAddress *AddressRequest `json:"billing_address"`
}

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	GSTIN          string          `json:"gstin"`
	BillingAddress AddressRequest  `json:"billing_address"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	BalanceType    string          `json:"balance_type"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// PartyListFilter represents filter options for the party list
type PartyListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=customer supplier both"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToPartyResponse converts a domain Party to PartyResponse
func ToPartyResponse(p *partner.Party) PartyResponse {
	return PartyResponse{
		ID:    p.ID,
		Name:  p.Name,
		Type:  string(p.Type),
		Phone: p.Phone,
		Email: p.Email,
		GSTIN: p.GSTIN,
		BillingAddress: AddressRequest{
			Street:  p.BillingAddress.Street,
			City:    p.BillingAddress.City,
			State:   p.BillingAddress.State,
			Pincode: p.BillingAddress.Pincode,
			Country: p.BillingAddress.Country,
		},
		OpeningBalance: p.OpeningBalance,
		CurrentBalance: p.CurrentBalance,
		BalanceType:    string(p.BalanceType),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

func listFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
	}
	return f.Normalize()
}
