package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripforge/go-trip-planner/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCategory types.ActivityCategory
		wantCost     float64
	}{
		{"restaurant is dining", "Dinner at a seaside restaurant", types.CategoryDining, 60},
		{"cafe is dining with lunch cost", "Lunch at a riverside cafe", types.CategoryDining, 30},
		{"hotel is accommodation", "Check in at the hotel", types.CategoryAccommodation, 0},
		{"tour is activity with museum cost", "Guided tour of the castle", types.CategoryActivity, 25},
		{"market is shopping", "Browse the flower market", types.CategoryShopping, 0},
		{"train is transport", "Take the train to the coast", types.CategoryTransport, 0},
		{"luxury overrides restaurant cost", "Luxury restaurant tasting menu", types.CategoryDining, 150},
		{"hike is activity and free", "Hike up the coastal trail", types.CategoryActivity, 0},
		{"generic activity cost", "Afternoon kayaking activity", types.CategoryActivity, 50},
		{"no signal defaults to attraction", "Visit the old town", types.CategoryAttraction, 0},
		{"case insensitive", "BREAKFAST AT THE SQUARE", types.CategoryDining, 0},
		{"empty input", "", types.CategoryAttraction, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, cost := Classify(tt.text)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantCost, cost)
		})
	}
}

// Classify is a total function: any input yields one of the six categories
// and a non-negative cost.
func TestClassify_TotalFunction(t *testing.T) {
	valid := map[types.ActivityCategory]bool{
		types.CategoryAttraction:    true,
		types.CategoryDining:        true,
		types.CategoryAccommodation: true,
		types.CategoryTransport:     true,
		types.CategoryShopping:      true,
		types.CategoryActivity:      true,
	}

	inputs := []string{
		"", " ", "\t\n", "123456789", "???", "a very long line with nothing notable in it at all",
		"restaurant hotel tour shop taxi", "TOUR", "÷×≠ unicode junk ☂",
	}
	for _, in := range inputs {
		category, cost := Classify(in)
		assert.True(t, valid[category], "unexpected category %q for input %q", category, in)
		assert.GreaterOrEqual(t, cost, 0.0)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Dining keywords are checked before accommodation keywords.
	category, _ := Classify("dinner at the hotel")
	assert.Equal(t, types.CategoryDining, category)

	// Luxury cost outranks the restaurant rate even for the same line.
	_, cost := Classify("luxury dinner cruise")
	assert.Equal(t, 150.0, cost)
}
