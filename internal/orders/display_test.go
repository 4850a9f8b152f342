package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₱17.85", FormatMoney("₱", decimal.RequireFromString("17.85")))
	assert.Equal(t, "₱5.00", FormatMoney("₱", decimal.NewFromInt(5)))
	assert.Equal(t, "₱0.13", FormatMoney("₱", decimal.RequireFromString("0.125")))
	assert.Equal(t, "-$2.50", FormatMoney("$", decimal.RequireFromString("-2.5")))
}

func TestDisplay_UsesBackendPriceAndFrozenModifiers(t *testing.T) {
	custom := SnapshotBase{Name: "Custom Size", Type: "CUSTOM", UnitPrice: decimal.NewFromInt(1), CustomValue: "8.5x13"}
	it := ClerkOrderItem{
		ID:              "item-1",
		ServiceName:     "Document Printing",
		Quantity:        10,
		CalculatedPrice: decimal.RequireFromString("99.99"),
		Snapshot: NewOrderPriceSnapshot(&custom,
			[]SnapshotLine{{Name: "Color", PriceModifier: decimal.RequireFromString("0.25")}},
			[]SnapshotLine{{Name: "Discount", PriceModifier: decimal.RequireFromString("-1")}},
		),
	}

	view := Display(it, "₱")

	assert.Equal(t, "₱99.99", view.Price)
	assert.Equal(t, "Custom Size (8.5x13)", view.Base)
	assert.Equal(t, []Badge{
		{Kind: "option", Label: "Color", Price: "+₱0.25"},
		{Kind: "customSpec", Label: "Discount", Price: "-₱1.00"},
	}, view.Badges)
}

func TestDisplay_NoSelections(t *testing.T) {
	view := Display(ClerkOrderItem{ID: "x", CalculatedPrice: decimal.Zero}, "₱")

	assert.Equal(t, "₱0.00", view.Price)
	assert.Empty(t, view.Base)
	assert.NotNil(t, view.Badges)
	assert.Empty(t, view.Badges)
}
