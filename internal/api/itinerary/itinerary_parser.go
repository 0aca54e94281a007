package itinerary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tripforge/go-trip-planner/internal/types"
)

const (
	defaultActivityTime     = "09:00"
	defaultActivityDuration = 120
)

var (
	dayMarkerRe   = regexp.MustCompile(`(?i)day\s+(\d+)`)
	leadingTimeRe = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	bulletRe      = regexp.MustCompile(`^[-*•]\s*`)
)

// Lines whose lowercase form contains any of these are section headers, not
// activities.
var sectionHeaderWords = []string{"day", "activities", "dining", "recommended", "overall"}

// ParsedItinerary is the structured skeleton recovered from free-form trip
// text. DayActivities always has exactly the requested number of day slots,
// some possibly empty.
type ParsedItinerary struct {
	Summary       string
	Tips          string
	DayActivities [][]types.Activity
}

// parseState is the scanner's cross-line state, kept explicit so the state
// machine is testable on its own rather than hidden in loop-local flags.
type parseState struct {
	inSummary      bool
	collectingTips bool
	currentDay     int // -1 until the first day marker
	summaryParts   []string
	tipsParts      []string
}

// ParseItineraryText runs a single forward pass over the raw text and
// recovers a trip summary, tips and per-day activity lists. It is a
// best-effort heuristic: malformed text degrades to sparse or empty days,
// it never fails structurally.
func ParseItineraryText(raw string, numberOfDays int, destination string) ParsedItinerary {
	if numberOfDays < 1 {
		numberOfDays = 1
	}

	st := parseState{inSummary: true, currentDay: -1}
	days := make([][]types.Activity, numberOfDays)

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		st.advance(line, numberOfDays)
		if st.consumed(line) {
			continue
		}
		if st.currentDay < 0 {
			continue
		}
		if act, ok := extractActivity(line, st.currentDay, len(days[st.currentDay]), destination); ok {
			days[st.currentDay] = append(days[st.currentDay], act)
		}
	}

	return ParsedItinerary{
		Summary:       strings.TrimSpace(strings.Join(st.summaryParts, " ")),
		Tips:          strings.TrimSpace(strings.Join(st.tipsParts, " ")),
		DayActivities: days,
	}
}

// advance applies the line's state transitions: day markers end summary
// collection permanently, and any line mentioning tips turns the tips
// overlay on for the remainder of the pass.
func (st *parseState) advance(line string, numberOfDays int) {
	if m := dayMarkerRe.FindStringSubmatch(line); m != nil {
		st.inSummary = false
		if n, err := strconv.Atoi(m[1]); err == nil {
			st.currentDay = clampDayIndex(n-1, numberOfDays)
		}
		return
	}
	if strings.Contains(strings.ToLower(line), "tip") {
		st.collectingTips = true
	}
}

// consumed reports whether the line was absorbed by the summary or tips
// buffers and therefore contributes no activity.
func (st *parseState) consumed(line string) bool {
	lower := strings.ToLower(line)
	if dayMarkerRe.MatchString(line) {
		return true // the marker line itself is skipped
	}
	if st.collectingTips {
		if !strings.Contains(lower, "overall") {
			st.tipsParts = append(st.tipsParts, line)
			return true
		}
		return false
	}
	if st.inSummary {
		st.summaryParts = append(st.summaryParts, line)
		return true
	}
	return false
}

func clampDayIndex(idx, numberOfDays int) int {
	if idx < 0 {
		return 0
	}
	if idx > numberOfDays-1 {
		return numberOfDays - 1
	}
	return idx
}

// extractActivity turns one line into an activity when it looks like one:
// either it starts with a time token, or it is long enough to be prose and
// is not a bare bullet.
func extractActivity(line string, dayIdx, ordinal int, destination string) (types.Activity, bool) {
	lower := strings.ToLower(line)
	for _, header := range sectionHeaderWords {
		if strings.Contains(lower, header) {
			return types.Activity{}, false
		}
	}

	timeMatch := leadingTimeRe.FindStringSubmatch(line)
	hasTime := timeMatch != nil && timeMatch[1] != ""
	if !hasTime {
		if len(line) <= 10 || bulletRe.MatchString(line) {
			return types.Activity{}, false
		}
	}

	activityTime := defaultActivityTime
	if hasTime {
		hour, _ := strconv.Atoi(timeMatch[1])
		minutes := timeMatch[2]
		if minutes == "" {
			minutes = "00"
		}
		activityTime = fmt.Sprintf("%02d:%s", hour, minutes)
	}

	stripped := bulletRe.ReplaceAllString(line, "")
	name := stripped
	// Known quirk: names containing a legitimate hyphen are truncated too.
	if idx := strings.Index(name, "-"); idx != -1 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)

	category, cost := Classify(line)

	return types.Activity{
		ID:              fmt.Sprintf("activity-%d-%d", dayIdx, ordinal),
		Name:            name,
		Description:     stripped,
		Time:            activityTime,
		DurationMinutes: defaultActivityDuration,
		Category:        category,
		EstimatedCost:   cost,
		Location:        types.ActivityLocation{Name: destination},
	}, true
}
