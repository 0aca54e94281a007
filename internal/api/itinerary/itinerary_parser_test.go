package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/go-trip-planner/internal/types"
)

func TestParseItineraryText_LisbonScenario(t *testing.T) {
	raw := "Day 1\n9:00 AM Visit the old town\nDinner at a seaside restaurant\nTips: bring sunscreen"

	parsed := ParseItineraryText(raw, 1, "Lisbon")

	require.Len(t, parsed.DayActivities, 1)
	require.Len(t, parsed.DayActivities[0], 2)

	first := parsed.DayActivities[0][0]
	assert.Equal(t, types.CategoryAttraction, first.Category)
	assert.Equal(t, 0.0, first.EstimatedCost)
	assert.Equal(t, "09:00", first.Time)
	assert.Equal(t, "Lisbon", first.Location.Name)

	second := parsed.DayActivities[0][1]
	assert.Equal(t, types.CategoryDining, second.Category)
	assert.Equal(t, 60.0, second.EstimatedCost)
	assert.Equal(t, "09:00", second.Time) // no time token matched

	assert.Equal(t, "Tips: bring sunscreen", parsed.Tips)
}

func TestParseItineraryText_DayMarker(t *testing.T) {
	raw := "Day 3: Museum visits\nExplore the sculpture garden"

	parsed := ParseItineraryText(raw, 3, "Oslo")

	// The marker line selects day 3 (index 2) and is not itself an activity.
	assert.Empty(t, parsed.DayActivities[0])
	assert.Empty(t, parsed.DayActivities[1])
	require.Len(t, parsed.DayActivities[2], 1)
	assert.Equal(t, "Explore the sculpture garden", parsed.DayActivities[2][0].Name)
}

func TestParseItineraryText_ClampsOutOfRangeDay(t *testing.T) {
	raw := "Day 9\nWander through the spice bazaar"

	parsed := ParseItineraryText(raw, 5, "Istanbul")

	require.Len(t, parsed.DayActivities, 5)
	require.Len(t, parsed.DayActivities[4], 1)
	for i := 0; i < 4; i++ {
		assert.Empty(t, parsed.DayActivities[i])
	}
}

func TestParseItineraryText_SummaryCollection(t *testing.T) {
	raw := "A relaxed long weekend.\nPlenty of walking.\nDay 1\nStroll along the canal ring"

	parsed := ParseItineraryText(raw, 2, "Amsterdam")

	assert.Equal(t, "A relaxed long weekend. Plenty of walking.", parsed.Summary)
	require.Len(t, parsed.DayActivities[0], 1)
}

func TestParseItineraryText_SectionHeadersSkipped(t *testing.T) {
	raw := "Day 1\nRecommended activities:\nOverall a busy morning\nClimb the cathedral tower"

	parsed := ParseItineraryText(raw, 1, "Seville")

	require.Len(t, parsed.DayActivities[0], 1)
	assert.Equal(t, "Climb the cathedral tower", parsed.DayActivities[0][0].Name)
}

func TestParseItineraryText_TimeFormats(t *testing.T) {
	raw := "Day 1\n7 AM Sunrise walk on the beach\n10:30 Coffee and pastries downtown\nShort\nVisit the naval museum quarter"

	parsed := ParseItineraryText(raw, 1, "Cadiz")

	require.Len(t, parsed.DayActivities[0], 3)
	assert.Equal(t, "07:00", parsed.DayActivities[0][0].Time)
	assert.Equal(t, "10:30", parsed.DayActivities[0][1].Time)
	// "Short" has no time and is too short to be prose.
	assert.Equal(t, "09:00", parsed.DayActivities[0][2].Time)
}

func TestParseItineraryText_BulletAndHyphenHandling(t *testing.T) {
	raw := "Day 1\n- A bulleted aside that is long enough\nWalk the High Line - elevated park stroll"

	parsed := ParseItineraryText(raw, 1, "New York")

	// Untimed bullet lines are not activities, however long.
	require.Len(t, parsed.DayActivities[0], 1)
	act := parsed.DayActivities[0][0]
	assert.Equal(t, "Walk the High Line", act.Name)
	assert.Equal(t, "Walk the High Line - elevated park stroll", act.Description)
}

func TestParseItineraryText_ActivityDefaults(t *testing.T) {
	parsed := ParseItineraryText("Day 1\nVisit the botanical gardens", 1, "Singapore")

	require.Len(t, parsed.DayActivities[0], 1)
	act := parsed.DayActivities[0][0]
	assert.Equal(t, "activity-0-0", act.ID)
	assert.Equal(t, 120, act.DurationMinutes)
	assert.Empty(t, act.Notes)
}

func TestParseItineraryText_EmptyAndMalformedInput(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		parsed := ParseItineraryText("", 3, "Nowhere")
		require.Len(t, parsed.DayActivities, 3)
		for _, day := range parsed.DayActivities {
			assert.Empty(t, day)
		}
		assert.Empty(t, parsed.Summary)
		assert.Empty(t, parsed.Tips)
	})

	t.Run("no day markers leaves days empty", func(t *testing.T) {
		parsed := ParseItineraryText("Just some rambling text\nwith no structure at all", 2, "Nowhere")
		assert.Empty(t, parsed.DayActivities[0])
		assert.Empty(t, parsed.DayActivities[1])
		assert.NotEmpty(t, parsed.Summary)
	})
}

// Re-parsing the parser's own summary must not crash and must preserve the
// requested day count.
func TestParseItineraryText_RoundTripSummary(t *testing.T) {
	raw := "A week of food and ruins.\nDay 1\n9:00 AM Tour the forum\nDay 2\nDinner in Trastevere after dark"

	first := ParseItineraryText(raw, 2, "Rome")
	second := ParseItineraryText(first.Summary, 2, "Rome")

	assert.Len(t, second.DayActivities, 2)
}
