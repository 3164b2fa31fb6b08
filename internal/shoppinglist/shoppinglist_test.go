package shoppinglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_SumsSameNameAndUnit(t *testing.T) {
	items := []Item{
		{Name: "flour", Unit: "g", Amount: 100},
		{Name: "flour", Unit: "g", Amount: 150},
	}

	assert.Equal(t, "• flour (g) - 250", Build(items))
}

func TestBuild_EmptyIsEmptyString(t *testing.T) {
	assert.Equal(t, "", Build(nil))
	assert.Equal(t, "", Build([]Item{}))
}

func TestAggregate_FirstOccurrenceOrder(t *testing.T) {
	items := []Item{
		{Name: "milk", Unit: "ml", Amount: 200},
		{Name: "egg", Unit: "pcs", Amount: 2},
		{Name: "milk", Unit: "ml", Amount: 300},
		{Name: "sugar", Unit: "g", Amount: 50},
		{Name: "egg", Unit: "pcs", Amount: 1},
	}

	assert.Equal(t, []Line{
		{Name: "milk", Unit: "ml", Amount: 500},
		{Name: "egg", Unit: "pcs", Amount: 3},
		{Name: "sugar", Unit: "g", Amount: 50},
	}, Aggregate(items))
}

func TestAggregate_DifferentUnitsStaySeparate(t *testing.T) {
	items := []Item{
		{Name: "sugar", Unit: "g", Amount: 50},
		{Name: "sugar", Unit: "tbsp", Amount: 2},
	}

	got := Build(items)
	assert.Equal(t, "• sugar (g) - 50\n• sugar (tbsp) - 2", got)
}
