package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	appMetrics "github.com/tripforge/go-trip-planner/app/observability/metrics"
	"github.com/tripforge/go-trip-planner/internal/types"
)

const DefaultGenerationTimeout = 30 * time.Second

// GeocodingProvider resolves a destination name to coordinates.
type GeocodingProvider interface {
	ResolveCoordinates(ctx context.Context, destination string) (types.Coordinates, error)
}

// WeatherProvider returns one snapshot per requested day. The boolean is
// true when the provider had to degrade to locally estimated values; it
// never returns an error because weather is cosmetic, not structural.
type WeatherProvider interface {
	Forecast(ctx context.Context, coords types.Coordinates, days int) ([]types.WeatherSnapshot, bool)
}

// TextGenerator produces free-form trip text from a prompt. Failures map to
// the sentinel errors in internal/types.
type TextGenerator interface {
	Complete(ctx context.Context, prompt, systemInstruction string) (string, error)
}

var _ SynthesisService = (*SynthesisServiceImpl)(nil)

// SynthesisService is the itinerary synthesis pipeline: it turns a trip
// request plus external provider data into a complete, typed itinerary.
type SynthesisService interface {
	// Synthesize builds a full multi-day itinerary. It fails with
	// ErrInvalidDateRange, ErrGeocodingFailed, ErrRateLimited or
	// ErrCancelled; every other provider failure degrades to the
	// deterministic fallback plan instead of failing the request.
	Synthesize(ctx context.Context, req types.TripRequest) (*types.Itinerary, error)

	// RegenerateDay rebuilds a single day without touching the rest of the
	// trip. It never fails: any provider problem yields the fixed
	// single-day placeholder.
	RegenerateDay(ctx context.Context, destination string, dayNumber int, date time.Time, prefs types.TripPreferences, weather *types.WeatherSnapshot) types.DayPlan
}

type SynthesisServiceImpl struct {
	logger     *slog.Logger
	geo        GeocodingProvider
	weather    WeatherProvider
	generator  TextGenerator
	genTimeout time.Duration
}

// NewSynthesisService creates the synthesis service. genTimeout bounds each
// text-generation call so a hung provider cannot hang the request; zero
// means DefaultGenerationTimeout.
func NewSynthesisService(geo GeocodingProvider, weather WeatherProvider, generator TextGenerator, genTimeout time.Duration, logger *slog.Logger) *SynthesisServiceImpl {
	if genTimeout <= 0 {
		genTimeout = DefaultGenerationTimeout
	}
	return &SynthesisServiceImpl{
		logger:     logger,
		geo:        geo,
		weather:    weather,
		generator:  generator,
		genTimeout: genTimeout,
	}
}

func (s *SynthesisServiceImpl) Synthesize(ctx context.Context, req types.TripRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("synthesisService").Start(ctx, "Synthesize", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "Synthesize"), slog.String("destination", req.Destination))

	if !req.StartDate.Before(req.EndDate) {
		span.SetStatus(codes.Error, "invalid date range")
		return nil, fmt.Errorf("synthesize %q: %w", req.Destination, types.ErrInvalidDateRange)
	}
	duration := tripDuration(req.StartDate, req.EndDate)
	span.SetAttributes(attribute.Int("trip.duration_days", duration))

	coords, err := s.geo.ResolveCoordinates(ctx, req.Destination)
	if err != nil {
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, fmt.Errorf("synthesize %q: %w", req.Destination, types.ErrCancelled)
		}
		l.ErrorContext(ctx, "Failed to resolve destination coordinates", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoding failed")
		appMetrics.Get().ProviderErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", "geocoding")))
		if errors.Is(err, types.ErrGeocodingFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve coordinates for %q: %w", req.Destination, types.ErrGeocodingFailed)
	}

	forecast, weatherDegraded := s.weather.Forecast(ctx, coords, duration)
	if weatherDegraded {
		l.WarnContext(ctx, "Weather provider degraded, using estimated forecast")
		appMetrics.Get().ProviderErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", "weather")))
	}

	prompt := generateTripPrompt(req, duration, forecast)
	raw, genErr := s.complete(ctx, prompt)
	if genErr != nil {
		if ctx.Err() != nil {
			// Caller abort: never assemble a fallback from partial data.
			span.SetStatus(codes.Error, "cancelled")
			return nil, fmt.Errorf("synthesize %q: %w", req.Destination, types.ErrCancelled)
		}
		if errors.Is(genErr, types.ErrRateLimited) {
			l.WarnContext(ctx, "Text generator rate limited, surfacing to caller")
			span.SetStatus(codes.Error, "rate limited")
			return nil, genErr
		}
		l.WarnContext(ctx, "Text generation failed, building fallback itinerary", slog.Any("error", genErr))
		appMetrics.Get().ProviderErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", "text_generation")))
	}

	var it *types.Itinerary
	if genErr != nil || strings.TrimSpace(raw) == "" {
		it = s.assembleFallback(req, coords, duration, forecast)
	} else {
		parsed := ParseItineraryText(raw, duration, req.Destination)
		if totalActivities(parsed.DayActivities) == 0 {
			l.WarnContext(ctx, "Generated text yielded no activities, building fallback itinerary")
			it = s.assembleFallback(req, coords, duration, forecast)
		} else {
			it = assembleParsed(req, coords, duration, forecast, parsed)
		}
	}

	if it.Provenance == types.ProvenanceFallback {
		appMetrics.Get().FallbackTotal.Add(ctx, 1)
	}
	appMetrics.Get().SynthesisRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provenance", string(it.Provenance))))
	appMetrics.Get().SynthesisDurationSeconds.Record(ctx, time.Since(start).Seconds())

	l.InfoContext(ctx, "Itinerary synthesized",
		slog.Int("duration_days", it.DurationDays),
		slog.String("provenance", string(it.Provenance)),
	)
	span.SetStatus(codes.Ok, "itinerary synthesized")
	return it, nil
}

func (s *SynthesisServiceImpl) RegenerateDay(ctx context.Context, destination string, dayNumber int, date time.Time, prefs types.TripPreferences, weather *types.WeatherSnapshot) types.DayPlan {
	ctx, span := otel.Tracer("synthesisService").Start(ctx, "RegenerateDay", trace.WithAttributes(
		attribute.String("trip.destination", destination),
		attribute.Int("trip.day", dayNumber),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "RegenerateDay"),
		slog.String("destination", destination), slog.Int("day", dayNumber))

	day := func() types.DayPlan {
		raw, err := s.complete(ctx, generateDayPrompt(destination, dayNumber, date, prefs))
		if err != nil || strings.TrimSpace(raw) == "" {
			l.WarnContext(ctx, "Day regeneration degraded to placeholder", slog.Any("error", err))
			return BuildFallbackDay(date, dayNumber)
		}
		parsed := ParseItineraryText(raw, 1, destination)
		activities := parsed.DayActivities[0]
		if len(activities) == 0 {
			l.WarnContext(ctx, "Regenerated text yielded no activities, using placeholder")
			return BuildFallbackDay(date, dayNumber)
		}
		return types.DayPlan{Day: dayNumber, Date: date, Activities: activities}
	}()

	stampDestination(&day, destination)
	day.Weather = weather
	day.Summary = daySummary(day.Activities)
	span.SetStatus(codes.Ok, "day regenerated")
	return day
}

// complete invokes the text generator under the mandatory bounded timeout.
func (s *SynthesisServiceImpl) complete(ctx context.Context, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	raw, err := s.generator.Complete(genCtx, prompt, promptSystemInstruction)
	if err != nil && ctx.Err() == nil && genCtx.Err() != nil {
		return "", fmt.Errorf("text generation exceeded %s: %w", s.genTimeout, types.ErrProviderTimeout)
	}
	return raw, err
}

func (s *SynthesisServiceImpl) assembleFallback(req types.TripRequest, coords types.Coordinates, duration int, forecast []types.WeatherSnapshot) *types.Itinerary {
	days := BuildFallbackDays(req.StartDate, duration)
	for i := range days {
		stampDestination(&days[i], req.Destination)
		days[i].Weather = snapshotForDay(forecast, i)
		days[i].Summary = daySummary(days[i].Activities)
	}
	return &types.Itinerary{
		Destination:  req.Destination,
		Coordinates:  coords,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DurationDays: duration,
		Days:         days,
		Summary:      fmt.Sprintf("A %d-day trip to %s.", duration, req.Destination),
		Tips:         fallbackNote,
		Provenance:   types.ProvenanceFallback,
	}
}

func assembleParsed(req types.TripRequest, coords types.Coordinates, duration int, forecast []types.WeatherSnapshot, parsed ParsedItinerary) *types.Itinerary {
	days := make([]types.DayPlan, 0, duration)
	for i := 0; i < duration; i++ {
		day := types.DayPlan{
			Day:        i + 1,
			Date:       req.StartDate.AddDate(0, 0, i),
			Activities: parsed.DayActivities[i],
			Weather:    snapshotForDay(forecast, i),
			Summary:    daySummary(parsed.DayActivities[i]),
		}
		if day.Activities == nil {
			day.Activities = []types.Activity{}
		}
		days = append(days, day)
	}
	return &types.Itinerary{
		Destination:  req.Destination,
		Coordinates:  coords,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DurationDays: duration,
		Days:         days,
		Summary:      parsed.Summary,
		Tips:         parsed.Tips,
		Provenance:   types.ProvenanceAI,
	}
}

func tripDuration(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

func totalActivities(days [][]types.Activity) int {
	n := 0
	for _, d := range days {
		n += len(d)
	}
	return n
}

func snapshotForDay(forecast []types.WeatherSnapshot, idx int) *types.WeatherSnapshot {
	if idx < 0 || idx >= len(forecast) {
		return nil
	}
	snap := forecast[idx]
	return &snap
}

func daySummary(activities []types.Activity) string {
	names := make([]string, 0, len(activities))
	for _, a := range activities {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func stampDestination(day *types.DayPlan, destination string) {
	for i := range day.Activities {
		if day.Activities[i].Location.Name == "" {
			day.Activities[i].Location.Name = destination
		}
	}
}
