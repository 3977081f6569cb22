package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientsCSV(t *testing.T) {
	input := strings.Join([]string{
		"flour,g",
		"milk,ml",
		"flour,kg",
		",g",
	}, "\n")

	ingredients, err := parseIngredientsCSV(strings.NewReader(input))
	require.NoError(t, err)

	// duplicate and empty names are dropped
	require.Len(t, ingredients, 2)
	assert.Equal(t, "flour", ingredients[0].Name)
	assert.Equal(t, "g", ingredients[0].MeasurementUnit)
	assert.Equal(t, "milk", ingredients[1].Name)
	assert.Equal(t, "ml", ingredients[1].MeasurementUnit)
}

func TestParseIngredientsCSVRejectsWrongFieldCount(t *testing.T) {
	_, err := parseIngredientsCSV(strings.NewReader("flour,g,extra\n"))
	assert.Error(t, err)
}

func TestParseIngredientsCSVEmptyFile(t *testing.T) {
	ingredients, err := parseIngredientsCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ingredients)
}
