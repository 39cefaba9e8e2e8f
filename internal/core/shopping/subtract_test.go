package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtractStockSameUnit(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Riz", Quantity: Num(500), Unit: "g"},
	}
	stock := []StockEntry{
		{Name: "riz", Quantity: Num(200), Unit: "g", Category: "epicerie"},
	}

	out := SubtractStock(groceries, stock)
	require.Len(t, out, 1)
	assert.Equal(t, 300.0, out[0].Quantity.Value)
	// Input left untouched.
	assert.Equal(t, 500.0, groceries[0].Quantity.Value)
}

func TestSubtractStockMetricConversion(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Farine", Quantity: Num(1500), Unit: "g"},
		{ItemName: "Lait", Quantity: Num(750), Unit: "ml"},
	}
	stock := []StockEntry{
		{Name: "farine", Quantity: Num(1), Unit: "kg", Category: "epicerie"},
		{Name: "lait", Quantity: Num(50), Unit: "cl", Category: "epicerie"},
	}

	out := SubtractStock(groceries, stock)
	require.Len(t, out, 2)
	assert.Equal(t, 500.0, out[0].Quantity.Value)
	assert.Equal(t, 250.0, out[1].Quantity.Value)
}

func TestSubtractStockFreshCategoryExempt(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Épinards", Quantity: Num(300), Unit: "g"},
	}
	stock := []StockEntry{
		{Name: "épinards", Quantity: Num(300), Unit: "g", Category: "Légumes frais"},
	}

	out := SubtractStock(groceries, stock)
	require.Len(t, out, 1)
	assert.Equal(t, 300.0, out[0].Quantity.Value)
}

func TestSubtractStockDefaultDecrement(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Pâtes", Quantity: Num(500), Unit: "g"},
		{ItemName: "Bouillon", Quantity: Num(400), Unit: "ml"},
		{ItemName: "Citrons", Quantity: Num(3), Unit: "pièce"},
	}
	// Stock entries exist but carry no usable quantity.
	stock := []StockEntry{
		{Name: "pâtes", Category: "epicerie"},
		{Name: "bouillon", Category: "epicerie"},
		{Name: "citrons", Category: "epicerie"},
	}

	out := SubtractStock(groceries, stock)
	require.Len(t, out, 3)
	assert.Equal(t, 300.0, out[0].Quantity.Value)
	assert.Equal(t, 300.0, out[1].Quantity.Value)
	assert.Equal(t, 2.0, out[2].Quantity.Value)
}

func TestSubtractStockFloorsAtZero(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Sucre", Quantity: Num(100), Unit: "g"},
	}
	stock := []StockEntry{
		{Name: "sucre", Quantity: Num(1), Unit: "kg", Category: "epicerie"},
	}

	out := SubtractStock(groceries, stock)
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].Quantity.Value)
}

func TestSubtractStockUnknownItemKept(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Safran", Quantity: Num(1), Unit: "g"},
	}
	stock := []StockEntry{
		{Name: "riz", Quantity: Num(500), Unit: "g", Category: "epicerie"},
	}

	out := SubtractStock(groceries, stock)
	require.Len(t, out, 1)
	assert.Equal(t, 1.0, out[0].Quantity.Value)
}

func TestSubtractStockEmptyStockReturnsInput(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Riz", Quantity: Num(500), Unit: "g"},
	}
	out := SubtractStock(groceries, nil)
	assert.Equal(t, groceries, out)
}

func TestSubtractStockIncompatibleUnitFallsBackToDefault(t *testing.T) {
	groceries := []GroceryLine{
		{ItemName: "Miel", Quantity: Num(250), Unit: "g"},
	}
	stock := []StockEntry{
		{Name: "miel", Quantity: Num(1), Unit: "pot", Category: "epicerie"},
	}

	out := SubtractStock(groceries, stock)
	require.Len(t, out, 1)
	assert.Equal(t, 50.0, out[0].Quantity.Value)
}
