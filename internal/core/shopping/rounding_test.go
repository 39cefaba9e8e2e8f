package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertKnownPairs(t *testing.T) {
	v, ok := convert(15, "g", "tsp")
	assert.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-9)

	v, ok = convert(2, "tbsp", "ml")
	assert.True(t, ok)
	assert.InDelta(t, 30.0, v, 1e-9)

	v, ok = convert(1, "cup", "ml")
	assert.True(t, ok)
	assert.InDelta(t, 240.0, v, 1e-9)

	v, ok = convert(2, "oz", "g")
	assert.True(t, ok)
	assert.InDelta(t, 56.7, v, 1e-9)
}

func TestConvertSameUnitIsIdentity(t *testing.T) {
	v, ok := convert(42, "G", " g ")
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
}

func TestConvertUnknownPair(t *testing.T) {
	_, ok := convert(1, "poignee", "g")
	assert.False(t, ok)
}

func TestApplyRoundingSpice(t *testing.T) {
	// 3 g of spice: 0.6 tsp, snapped to the nearest quarter.
	qty, unit := applyRounding(Num(3), "g", "spice")
	assert.Equal(t, "tsp", unit)
	assert.Equal(t, 0.5, qty.Value)
}

func TestApplyRoundingMeat(t *testing.T) {
	qty, unit := applyRounding(Num(237), "g", "meat")
	assert.Equal(t, "g", unit)
	assert.Equal(t, 240.0, qty.Value)
}

func TestApplyRoundingLiquid(t *testing.T) {
	qty, unit := applyRounding(Num(2), "tbsp", "liquid")
	assert.Equal(t, "ml", unit)
	assert.Equal(t, 30.0, qty.Value)
}

func TestApplyRoundingUnknownCategoryNoop(t *testing.T) {
	qty, unit := applyRounding(Num(3), "g", "epicerie")
	assert.Equal(t, "g", unit)
	assert.Equal(t, 3.0, qty.Value)
}

func TestApplyRoundingFailedConversionNoop(t *testing.T) {
	qty, unit := applyRounding(Num(2), "sachet", "spice")
	assert.Equal(t, "sachet", unit)
	assert.Equal(t, 2.0, qty.Value)
}

func TestApplyRoundingUnknownQuantityNoop(t *testing.T) {
	qty, unit := applyRounding(Unknown(), "g", "meat")
	assert.False(t, qty.Known)
	assert.Equal(t, "g", unit)
}
