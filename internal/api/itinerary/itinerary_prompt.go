package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripforge/go-trip-planner/internal/types"
)

const promptSystemInstruction = "You are a pragmatic travel planner. " +
	"Write concise, realistic day-by-day trip plans in plain text, never JSON or markdown tables."

func generateTripPrompt(req types.TripRequest, numberOfDays int, weather []types.WeatherSnapshot) string {
	interestsPart := ""
	if len(req.Preferences.Interests) > 0 {
		interestsPart = fmt.Sprintf("\n        The traveler is especially interested in: %s.", strings.Join(req.Preferences.Interests, ", "))
	}
	weatherPart := ""
	if len(weather) > 0 {
		conditions := make([]string, 0, len(weather))
		for _, w := range weather {
			conditions = append(conditions, fmt.Sprintf("%s %.0fC", w.Condition, w.TemperatureC))
		}
		weatherPart = fmt.Sprintf("\n        Expected weather by day: %s.", strings.Join(conditions, "; "))
	}
	return fmt.Sprintf(`
        Plan a %d-day trip to %s from %s to %s for %d traveler(s).
        Travel style: %s. Budget: %s.%s%s
        Structure the answer as plain text:
        - Start with a 2-3 sentence trip summary.
        - Then one section per day headed "Day N", each with 3-5 activities,
          one per line, starting with a time like "9:00 AM".
        - Finish with a "Tips" section of practical advice.`,
		numberOfDays, req.Destination,
		req.StartDate.Format(time.DateOnly), req.EndDate.Format(time.DateOnly),
		travelerCount(req.Preferences.Travelers),
		styleOrDefault(req.Preferences.TravelStyle), budgetOrDefault(req.Preferences.Budget),
		interestsPart, weatherPart)
}

func generateDayPrompt(destination string, dayNumber int, date time.Time, prefs types.TripPreferences) string {
	interestsPart := ""
	if len(prefs.Interests) > 0 {
		interestsPart = fmt.Sprintf(" Interests: %s.", strings.Join(prefs.Interests, ", "))
	}
	return fmt.Sprintf(`
        Plan day %d of a trip to %s (%s) for %d traveler(s).
        Travel style: %s. Budget: %s.%s
        Answer in plain text headed "Day %d" with 3-5 activities, one per
        line, each starting with a time like "9:00 AM".`,
		dayNumber, destination, date.Format(time.DateOnly),
		travelerCount(prefs.Travelers),
		styleOrDefault(prefs.TravelStyle), budgetOrDefault(prefs.Budget),
		interestsPart, dayNumber)
}

func travelerCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func styleOrDefault(style string) string {
	if style == "" {
		return "balanced"
	}
	return style
}

func budgetOrDefault(b types.BudgetTier) types.BudgetTier {
	if b == "" {
		return types.BudgetTierModerate
	}
	return b
}
