package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripforge/go-trip-planner/internal/api"
	"github.com/tripforge/go-trip-planner/internal/types"
)

type ItineraryHandler struct {
	service SynthesisService
	repo    Repository
	logger  *slog.Logger
}

func NewItineraryHandler(service SynthesisService, repo Repository, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		logger:  logger,
		service: service,
		repo:    repo,
	}
}

// CreateItinerary synthesizes a new itinerary and persists it.
// A degraded (fallback) plan is still a success; callers can read the
// provenance field to tell the difference.
func (h *ItineraryHandler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Destination == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "destination is required")
		return
	}

	it, err := h.service.Synthesize(r.Context(), req)
	if err != nil {
		h.writeSynthesisError(w, r, err)
		return
	}

	if _, err := h.repo.SaveItinerary(r.Context(), it); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to persist itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to save itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, it)
}

func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itineraryID(w, r)
	if !ok {
		return
	}
	it, err := h.repo.GetItinerary(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrItineraryNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "itinerary not found")
			return
		}
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to fetch itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

func (h *ItineraryHandler) ListItineraries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.repo.ListItineraries(r.Context(), limit)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to list itineraries")
		return
	}
	if list == nil {
		list = []*types.Itinerary{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

func (h *ItineraryHandler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itineraryID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteItinerary(r.Context(), id); err != nil {
		if errors.Is(err, ErrItineraryNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "itinerary not found")
			return
		}
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to delete itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// RegenerateDay rebuilds one day of a stored itinerary and persists the
// replacement. Day regeneration itself never fails; only lookup and
// persistence errors can surface here.
func (h *ItineraryHandler) RegenerateDay(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itineraryID(w, r)
	if !ok {
		return
	}
	dayNumber, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
	if err != nil || dayNumber < 1 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid day number")
		return
	}

	var body struct {
		Preferences types.TripPreferences `json:"preferences"`
	}
	if err := api.DecodeJSONBody(w, r, &body); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.repo.GetItinerary(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrItineraryNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "itinerary not found")
			return
		}
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to fetch itinerary")
		return
	}
	if dayNumber > it.DurationDays {
		api.ErrorResponse(w, r, http.StatusBadRequest, "day number exceeds trip duration")
		return
	}

	date := it.StartDate.AddDate(0, 0, dayNumber-1)
	var weather *types.WeatherSnapshot
	for _, d := range it.Days {
		if d.Day == dayNumber {
			weather = d.Weather
			break
		}
	}

	day := h.service.RegenerateDay(r.Context(), it.Destination, dayNumber, date, body.Preferences, weather)

	if _, err := h.repo.ReplaceDay(r.Context(), id, day); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to persist regenerated day",
			slog.Int("day", dayNumber), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to save regenerated day")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, day)
}

func (h *ItineraryHandler) itineraryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid itinerary id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ItineraryHandler) writeSynthesisError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidDateRange):
		api.ErrorResponse(w, r, http.StatusBadRequest, types.ErrInvalidDateRange.Error())
	case errors.Is(err, types.ErrRateLimited):
		w.Header().Set("Retry-After", strconv.Itoa(int((5 * time.Second).Seconds())))
		api.ErrorResponse(w, r, http.StatusTooManyRequests, "text generator is rate limited, retry shortly")
	case errors.Is(err, types.ErrGeocodingFailed):
		api.ErrorResponse(w, r, http.StatusBadGateway, "could not resolve destination coordinates")
	case errors.Is(err, types.ErrCancelled):
		// Client went away; best effort status for intermediaries.
		api.ErrorResponse(w, r, http.StatusRequestTimeout, "request cancelled")
	default:
		h.logger.ErrorContext(r.Context(), "Itinerary synthesis failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to synthesize itinerary")
	}
}
