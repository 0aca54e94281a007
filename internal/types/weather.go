package types

import "time"

// Coordinates is a resolved geographic position for a destination.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherSnapshot is a single day's forecast attached to a DayPlan.
// Weather is cosmetic for the itinerary, never structural.
type WeatherSnapshot struct {
	Date         time.Time `json:"date"`
	TemperatureC float64   `json:"temperature_c"`
	FeelsLikeC   float64   `json:"feels_like_c"`
	Condition    string    `json:"condition"`
	HumidityPct  int       `json:"humidity_pct"`
	WindSpeedKmh float64   `json:"wind_speed_kmh"`
	Icon         string    `json:"icon"`
}
