package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("product keeps opening stock", func(t *testing.T) {
		item, err := NewItem("  Steel Rod ", ItemTypeProduct, 40)
		require.NoError(t, err)

		assert.Equal(t, "Steel Rod", item.Name)
		assert.Equal(t, int64(40), item.OpeningStock)
		assert.Equal(t, int64(40), item.CurrentStock)
		assert.Equal(t, DefaultUnit, item.Unit)
		assert.Equal(t, 1, item.Version)
		require.Len(t, item.PendingEvents(), 1)
		assert.Equal(t, EventTypeItemCreated, item.PendingEvents()[0].EventType())
	})

	t.Run("service ignores opening stock", func(t *testing.T) {
		item, err := NewItem("Installation", ItemTypeService, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), item.CurrentStock)
		assert.False(t, item.TracksStock())
	})

	t.Run("empty type defaults to product", func(t *testing.T) {
		item, err := NewItem("Bolt", "", 0)
		require.NoError(t, err)
		assert.Equal(t, ItemTypeProduct, item.Type)
	})

	t.Run("rejects empty name and unknown type", func(t *testing.T) {
		_, err := NewItem("   ", ItemTypeProduct, 0)
		assert.Error(t, err)

		_, err = NewItem("Bolt", "gadget", 0)
		assert.Error(t, err)
	})
}

func TestItem_ApplyStockDelta(t *testing.T) {
	product, _ := NewItem("Bolt", ItemTypeProduct, 5)
	product.ApplyStockDelta(-8)
	assert.Equal(t, int64(-3), product.CurrentStock, "stock may go negative")

	product.ApplyStockDelta(8)
	assert.Equal(t, int64(5), product.CurrentStock)

	service, _ := NewItem("Repair", ItemTypeService, 0)
	service.ApplyStockDelta(10)
	assert.Equal(t, int64(0), service.CurrentStock)
}

func TestItem_SetPricing(t *testing.T) {
	item, _ := NewItem("Bolt", ItemTypeProduct, 0)

	require.NoError(t, item.SetPricing(decimal.NewFromInt(120), decimal.NewFromInt(100), decimal.NewFromInt(18)))
	assert.True(t, item.SalePrice.Equal(decimal.NewFromInt(120)))

	assert.Error(t, item.SetPricing(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero))
	assert.Error(t, item.SetPricing(decimal.Zero, decimal.Zero, decimal.NewFromInt(101)))
}

func TestItem_SetDetails(t *testing.T) {
	item, _ := NewItem("Bolt", ItemTypeProduct, 0)
	item.SetDetails(" B-1 ", "Hardware", "", "7318", "M8 bolt")

	assert.Equal(t, "B-1", item.ItemCode)
	assert.Equal(t, DefaultUnit, item.Unit)
	assert.Equal(t, "7318", item.HSNCode)
}

func TestItem_IsLowStock(t *testing.T) {
	item, _ := NewItem("Bolt", ItemTypeProduct, 3)
	assert.False(t, item.IsLowStock(), "no threshold set")

	require.NoError(t, item.SetMinStockLevel(5))
	assert.True(t, item.IsLowStock())

	item.ApplyStockDelta(10)
	assert.False(t, item.IsLowStock())

	assert.Error(t, item.SetMinStockLevel(-1))
}
