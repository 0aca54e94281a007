package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripforge/go-trip-planner/internal/types"
)

const (
	DefaultBaseURL  = "https://api.open-meteo.com/v1"
	maxForecastDays = 16
)

var _ ForecastService = (*ForecastServiceImpl)(nil)

// ForecastService returns one snapshot per trip day. It never errors: when
// the upstream provider fails it degrades to a locally generated plausible
// forecast and reports that with the second return value, so callers can
// log the degradation without control-flow-via-error.
type ForecastService interface {
	Forecast(ctx context.Context, coords types.Coordinates, days int) ([]types.WeatherSnapshot, bool)
}

type ForecastServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

func NewForecastService(baseURL string, client *http.Client, logger *slog.Logger) *ForecastServiceImpl {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ForecastServiceImpl{logger: logger, client: client, baseURL: baseURL}
}

func (s *ForecastServiceImpl) Forecast(ctx context.Context, coords types.Coordinates, days int) ([]types.WeatherSnapshot, bool) {
	ctx, span := otel.Tracer("forecastService").Start(ctx, "Forecast")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("geo.latitude", coords.Latitude),
		attribute.Float64("geo.longitude", coords.Longitude),
		attribute.Int("forecast.days", days),
	)

	if days < 1 {
		days = 1
	}

	snapshots, err := s.fetch(ctx, coords, days)
	if err != nil {
		s.logger.WarnContext(ctx, "Weather provider failed, generating estimated forecast",
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Ok, "degraded to estimated forecast")
		return estimatedForecast(days), true
	}

	span.SetStatus(codes.Ok, "forecast fetched")
	return snapshots, false
}

func (s *ForecastServiceImpl) fetch(ctx context.Context, coords types.Coordinates, days int) ([]types.WeatherSnapshot, error) {
	fetchDays := days
	if fetchDays > maxForecastDays {
		fetchDays = maxForecastDays
	}
	endpoint := fmt.Sprintf(
		"%s/forecast?latitude=%.4f&longitude=%.4f&daily=temperature_2m_max,apparent_temperature_max,relative_humidity_2m_mean,wind_speed_10m_max,weather_code&forecast_days=%d&timezone=UTC",
		s.baseURL, coords.Latitude, coords.Longitude, fetchDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast returned status %d", resp.StatusCode)
	}

	var payload struct {
		Daily struct {
			Time            []string  `json:"time"`
			TempMax         []float64 `json:"temperature_2m_max"`
			ApparentTempMax []float64 `json:"apparent_temperature_max"`
			HumidityMean    []float64 `json:"relative_humidity_2m_mean"`
			WindSpeedMax    []float64 `json:"wind_speed_10m_max"`
			WeatherCode     []int     `json:"weather_code"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	if len(payload.Daily.Time) == 0 {
		return nil, fmt.Errorf("forecast response contained no days")
	}

	snapshots := make([]types.WeatherSnapshot, 0, days)
	for i := 0; i < len(payload.Daily.Time) && i < days; i++ {
		date, _ := time.Parse(time.DateOnly, payload.Daily.Time[i])
		condition, icon := describeWeatherCode(at(payload.Daily.WeatherCode, i))
		snapshots = append(snapshots, types.WeatherSnapshot{
			Date:         date,
			TemperatureC: atF(payload.Daily.TempMax, i),
			FeelsLikeC:   atF(payload.Daily.ApparentTempMax, i),
			Condition:    condition,
			HumidityPct:  int(atF(payload.Daily.HumidityMean, i)),
			WindSpeedKmh: atF(payload.Daily.WindSpeedMax, i),
			Icon:         icon,
		})
	}
	// Trips longer than the provider horizon reuse estimates for the tail.
	for len(snapshots) < days {
		est := estimatedForecast(1)[0]
		est.Date = snapshots[len(snapshots)-1].Date.AddDate(0, 0, 1)
		snapshots = append(snapshots, est)
	}
	return snapshots, nil
}

// estimatedForecast generates randomized but plausible values for the
// degraded path. Weather is cosmetic, so plausibility beats accuracy.
func estimatedForecast(days int) []types.WeatherSnapshot {
	conditions := []struct {
		text string
		icon string
	}{
		{"Clear sky", "01d"},
		{"Partly cloudy", "02d"},
		{"Overcast", "04d"},
		{"Light rain", "10d"},
	}

	snapshots := make([]types.WeatherSnapshot, 0, days)
	for i := 0; i < days; i++ {
		temp := 15 + rand.Float64()*15
		cond := conditions[rand.Intn(len(conditions))]
		snapshots = append(snapshots, types.WeatherSnapshot{
			Date:         time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, i),
			TemperatureC: temp,
			FeelsLikeC:   temp - 1 + rand.Float64()*2,
			Condition:    cond.text,
			HumidityPct:  40 + rand.Intn(45),
			WindSpeedKmh: 5 + rand.Float64()*25,
			Icon:         cond.icon,
		})
	}
	return snapshots
}

// describeWeatherCode maps WMO weather interpretation codes to display text.
func describeWeatherCode(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear sky", "01d"
	case code <= 2:
		return "Partly cloudy", "02d"
	case code == 3:
		return "Overcast", "04d"
	case code <= 48:
		return "Fog", "50d"
	case code <= 57:
		return "Drizzle", "09d"
	case code <= 67:
		return "Rain", "10d"
	case code <= 77:
		return "Snow", "13d"
	case code <= 82:
		return "Rain showers", "09d"
	case code <= 86:
		return "Snow showers", "13d"
	default:
		return "Thunderstorm", "11d"
	}
}

func at(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func atF(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
