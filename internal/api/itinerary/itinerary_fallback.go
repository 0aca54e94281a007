package itinerary

import (
	"fmt"
	"time"

	"github.com/tripforge/go-trip-planner/internal/types"
)

const fallbackNote = "Suggested placeholder. Adjust times and pick specific venues once you know your pace."

// BuildFallbackDays deterministically builds one placeholder day plan per
// day starting at start. It is the degraded path used when text generation
// is unavailable or its output is unusable; same inputs always produce
// structurally identical output.
func BuildFallbackDays(start time.Time, numberOfDays int) []types.DayPlan {
	days := make([]types.DayPlan, 0, numberOfDays)
	for i := 0; i < numberOfDays; i++ {
		days = append(days, BuildFallbackDay(start.AddDate(0, 0, i), i+1))
	}
	return days
}

// BuildFallbackDay builds the fixed single-day placeholder, also used by
// day regeneration when its provider call fails.
func BuildFallbackDay(date time.Time, day int) types.DayPlan {
	activities := []types.Activity{
		{
			ID:              fmt.Sprintf("day-%d-1", day),
			Name:            "Morning exploration",
			Description:     "Explore the city center on foot and get oriented.",
			Time:            "09:00",
			DurationMinutes: defaultActivityDuration,
			Category:        types.CategoryAttraction,
			EstimatedCost:   0,
			Notes:           fallbackNote,
		},
		{
			ID:              fmt.Sprintf("day-%d-2", day),
			Name:            "Cultural site visit",
			Description:     "Visit a major museum or historical landmark.",
			Time:            "14:00",
			DurationMinutes: defaultActivityDuration,
			Category:        types.CategoryAttraction,
			EstimatedCost:   25,
			Notes:           fallbackNote,
		},
		{
			ID:              fmt.Sprintf("day-%d-3", day),
			Name:            "Dinner at a local restaurant",
			Description:     "End the day with regional food near your accommodation.",
			Time:            "19:00",
			DurationMinutes: defaultActivityDuration,
			Category:        types.CategoryDining,
			EstimatedCost:   60,
			Notes:           fallbackNote,
		},
	}

	return types.DayPlan{
		Day:        day,
		Date:       date,
		Activities: activities,
	}
}
