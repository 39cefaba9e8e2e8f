package llm

import (
	"testing"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCourseItem(t *testing.T) {
	assert.NoError(t, ValidateCourseItem(shopping.GroceryLine{ItemName: "Riz"}, false))
	assert.Error(t, ValidateCourseItem(shopping.GroceryLine{}, false))
	assert.Error(t, ValidateCourseItem(shopping.GroceryLine{ItemName: "  "}, false))
	assert.Error(t, ValidateCourseItem(shopping.GroceryLine{ItemName: "Riz", Quantity: shopping.Num(-1)}, false))
}

func TestValidateCourseItemStrict(t *testing.T) {
	complete := shopping.GroceryLine{ItemName: "Riz", Quantity: shopping.Num(250), Unit: "g"}
	assert.NoError(t, ValidateCourseItem(complete, true))

	noQty := shopping.GroceryLine{ItemName: "Riz", Unit: "g"}
	assert.Error(t, ValidateCourseItem(noQty, true))

	noUnit := shopping.GroceryLine{ItemName: "Riz", Quantity: shopping.Num(250)}
	assert.Error(t, ValidateCourseItem(noUnit, true))
}

func TestValidateCoursesReportsIndexes(t *testing.T) {
	errs := ValidateCourses([]shopping.GroceryLine{
		{ItemName: "Riz"},
		{},
		{ItemName: "Lait", Quantity: shopping.Num(-3)},
	}, false)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "item 1")
	assert.Contains(t, errs[1].Error(), "item 2")
}

func TestSanitizeCourseItem(t *testing.T) {
	dirty := shopping.GroceryLine{
		ItemName:      "  Riz ",
		Unit:          " g ",
		Notes:         " bio ",
		SourceRecipes: " Curry ",
		Quantity:      shopping.Num(-2),
	}
	clean := SanitizeCourseItem(dirty)
	assert.Equal(t, "Riz", clean.ItemName)
	assert.Equal(t, "g", clean.Unit)
	assert.Equal(t, "bio", clean.Notes)
	assert.Equal(t, "Curry", clean.SourceRecipes)
	assert.False(t, clean.Quantity.Known)
}
