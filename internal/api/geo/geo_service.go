package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/tripforge/go-trip-planner/internal/types"
)

const DefaultBaseURL = "https://geocoding-api.open-meteo.com/v1"

var _ GeocodingService = (*GeocodingServiceImpl)(nil)

// GeocodingService resolves destination names to coordinates. Any failure
// surfaces as ErrGeocodingFailed; there is no degraded path because per-day
// weather lookups need real coordinates.
type GeocodingService interface {
	ResolveCoordinates(ctx context.Context, destination string) (types.Coordinates, error)
}

type GeocodingServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	cache   *cache.Cache
	group   singleflight.Group
}

func NewGeocodingService(baseURL string, client *http.Client, logger *slog.Logger) *GeocodingServiceImpl {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GeocodingServiceImpl{
		logger:  logger,
		client:  client,
		baseURL: baseURL,
		cache:   cache.New(24*time.Hour, time.Hour),
	}
}

func (s *GeocodingServiceImpl) ResolveCoordinates(ctx context.Context, destination string) (types.Coordinates, error) {
	ctx, span := otel.Tracer("geocodingService").Start(ctx, "ResolveCoordinates")
	defer span.End()
	span.SetAttributes(attribute.String("geo.destination", destination))

	if destination == "" {
		span.SetStatus(codes.Error, "empty destination")
		return types.Coordinates{}, fmt.Errorf("empty destination: %w", types.ErrGeocodingFailed)
	}

	if cached, found := s.cache.Get(destination); found {
		span.SetStatus(codes.Ok, "cache hit")
		return cached.(types.Coordinates), nil
	}

	// Concurrent lookups for the same destination share one upstream call.
	result, err, _ := s.group.Do(destination, func() (interface{}, error) {
		return s.lookup(ctx, destination)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Geocoding lookup failed",
			slog.String("destination", destination), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return types.Coordinates{}, err
	}

	coords := result.(types.Coordinates)
	s.cache.Set(destination, coords, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "coordinates resolved")
	return coords, nil
}

func (s *GeocodingServiceImpl) lookup(ctx context.Context, destination string) (types.Coordinates, error) {
	endpoint := fmt.Sprintf("%s/search?name=%s&count=1&format=json", s.baseURL, url.QueryEscape(destination))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("build geocoding request: %w", types.ErrGeocodingFailed)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("geocoding request for %q: %v: %w", destination, err, types.ErrGeocodingFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Coordinates{}, fmt.Errorf("geocoding returned status %d: %w", resp.StatusCode, types.ErrGeocodingFailed)
	}

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return types.Coordinates{}, fmt.Errorf("decode geocoding response: %v: %w", err, types.ErrGeocodingFailed)
	}
	if len(payload.Results) == 0 {
		return types.Coordinates{}, fmt.Errorf("no results for %q: %w", destination, types.ErrGeocodingFailed)
	}

	return types.Coordinates{
		Latitude:  payload.Results[0].Latitude,
		Longitude: payload.Results[0].Longitude,
	}, nil
}
