package types

import (
	"time"

	"github.com/google/uuid"
)

// BudgetTier is the traveler's spending level used when prompting the AI.
type BudgetTier string

const (
	BudgetTierBudget   BudgetTier = "budget"
	BudgetTierModerate BudgetTier = "moderate"
	BudgetTierLuxury   BudgetTier = "luxury"
)

// ActivityCategory is the fixed set of activity classifications.
// Unclassifiable text defaults to CategoryAttraction.
type ActivityCategory string

const (
	CategoryAttraction    ActivityCategory = "attraction"
	CategoryDining        ActivityCategory = "dining"
	CategoryAccommodation ActivityCategory = "accommodation"
	CategoryTransport     ActivityCategory = "transport"
	CategoryShopping      ActivityCategory = "shopping"
	CategoryActivity      ActivityCategory = "activity"
)

// Provenance records where an itinerary's content came from.
type Provenance string

const (
	ProvenanceAI       Provenance = "ai"
	ProvenanceFallback Provenance = "fallback"
	ProvenanceUser     Provenance = "user"
)

// TripPreferences carries the traveler preferences embedded into the
// generation prompt. Interests are free-form tags.
type TripPreferences struct {
	Budget      BudgetTier `json:"budget"`
	TravelStyle string     `json:"travel_style"`
	Travelers   int        `json:"travelers"`
	Interests   []string   `json:"interests,omitempty"`
}

// TripRequest is the transient per-call input to itinerary synthesis.
// StartDate must be strictly before EndDate; the maximum span is enforced
// by the caller, not here.
type TripRequest struct {
	Destination string          `json:"destination"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Preferences TripPreferences `json:"preferences"`
}

// ActivityLocation is a named place reference. Coordinates stay zero when
// the activity was not geocoded individually.
type ActivityLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Activity is a single typed entry in a day plan.
type Activity struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Time            string           `json:"time"` // HH:MM
	DurationMinutes int              `json:"duration_minutes"`
	Category        ActivityCategory `json:"category"`
	EstimatedCost   float64          `json:"estimated_cost"`
	Notes           string           `json:"notes,omitempty"`
	Location        ActivityLocation `json:"location"`
}

// DayPlan is one day of an itinerary. Day is 1-based and contiguous across
// the itinerary; Date is derived from the trip start date.
type DayPlan struct {
	Day        int              `json:"day"`
	Date       time.Time        `json:"date"`
	Activities []Activity       `json:"activities"`
	Weather    *WeatherSnapshot `json:"weather,omitempty"`
	Summary    string           `json:"summary,omitempty"`
}

// Itinerary is the assembled multi-day plan. The synthesis core constructs
// it once and hands ownership to the caller; it holds no persistent state.
type Itinerary struct {
	ID           uuid.UUID   `json:"id"`
	Destination  string      `json:"destination"`
	Coordinates  Coordinates `json:"coordinates"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	DurationDays int         `json:"duration_days"`
	Days         []DayPlan   `json:"days"`
	Summary      string      `json:"summary,omitempty"`
	Tips         string      `json:"tips,omitempty"`
	Provenance   Provenance  `json:"provenance"`
	CreatedAt    time.Time   `json:"created_at,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at,omitempty"`
}
