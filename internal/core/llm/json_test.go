package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObjectPlainJSON(t *testing.T) {
	var out struct {
		Recipes []SelectedRecipe `json:"recipes"`
	}
	err := decodeObject(`{"recipes":[{"Nom":"Curry","Lien":"https://x","Temps":30}]}`, &out)
	require.NoError(t, err)
	require.Len(t, out.Recipes, 1)
	assert.Equal(t, "Curry", out.Recipes[0].Name)
}

func TestDecodeObjectSalvagesWrappedJSON(t *testing.T) {
	content := "Voici la liste demandée :\n```json\n{\"courses\": [{\"Aliment\": \"Riz\"}]}\n```\nBon appétit !"
	var envelope courseEnvelope
	err := decodeObject(content, &envelope)
	require.NoError(t, err)
	require.Len(t, envelope.Courses, 1)
	assert.Equal(t, "Riz", envelope.Courses[0].ItemName)
}

func TestDecodeObjectQuotesBareKeys(t *testing.T) {
	var out struct {
		Recipes []SelectedRecipe `json:"recipes"`
	}
	err := decodeObject(`{recipes: [{Nom: "Curry", Temps: 30}]}`, &out)
	require.NoError(t, err)
	require.Len(t, out.Recipes, 1)
	assert.Equal(t, "Curry", out.Recipes[0].Name)
	assert.Equal(t, 30, out.Recipes[0].ReadyMinutes)
}

func TestDecodeObjectNoObject(t *testing.T) {
	var out map[string]interface{}
	err := decodeObject("désolé, je ne peux pas répondre", &out)
	assert.Error(t, err)
}

func TestSalvageObject(t *testing.T) {
	salvaged, ok := salvageObject("  prose {\"a\": {\"b\": 1}} more prose ")
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, salvaged)

	_, ok = salvageObject("no braces here")
	assert.False(t, ok)
}
