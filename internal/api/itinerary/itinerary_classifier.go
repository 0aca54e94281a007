package itinerary

import (
	"strings"

	"github.com/tripforge/go-trip-planner/internal/types"
)

// Classification rules are flat ordered lists checked first-match-wins.
// Order matters: "restaurant" must classify as dining before the cost table
// is consulted, and the cost table has its own independent priority.
type keywordRule[T any] struct {
	keywords []string
	result   T
}

var categoryRules = []keywordRule[types.ActivityCategory]{
	{[]string{"restaurant", "dinner", "lunch", "breakfast", "cafe"}, types.CategoryDining},
	{[]string{"hotel", "accommodation", "stay"}, types.CategoryAccommodation},
	{[]string{"tour", "hike", "adventure", "activity"}, types.CategoryActivity},
	{[]string{"shop", "market", "store"}, types.CategoryShopping},
	{[]string{"transport", "taxi", "train", "bus"}, types.CategoryTransport},
}

var costRules = []keywordRule[float64]{
	{[]string{"luxury", "fine dining"}, 150},
	{[]string{"restaurant", "dinner"}, 60},
	{[]string{"cafe", "lunch"}, 30},
	{[]string{"museum", "tour"}, 25},
	{[]string{"hike", "walk"}, 0},
	{[]string{"activity"}, 50},
}

// Classify maps a line of free text to an activity category and an estimated
// cost. It is deterministic and total: any input yields exactly one of the
// six categories (default attraction) and a cost >= 0 (default 0).
func Classify(text string) (types.ActivityCategory, float64) {
	lower := strings.ToLower(text)

	category := types.CategoryAttraction
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			category = rule.result
			break
		}
	}

	cost := 0.0
	for _, rule := range costRules {
		if containsAny(lower, rule.keywords) {
			cost = rule.result
			break
		}
	}

	return category, cost
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
