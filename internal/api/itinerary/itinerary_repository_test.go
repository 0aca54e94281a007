package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/go-trip-planner/internal/types"
)

func setupRepositoryTest(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewRepository(mockPool, logger), mockPool
}

func storedItinerary() *types.Itinerary {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &types.Itinerary{
		Destination:  "Lisbon",
		Coordinates:  types.Coordinates{Latitude: 38.7223, Longitude: -9.1393},
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 3),
		DurationDays: 3,
		Days:         BuildFallbackDays(start, 3),
		Summary:      "A 3-day trip to Lisbon.",
		Tips:         fallbackNote,
		Provenance:   types.ProvenanceFallback,
	}
}

func itineraryRow(t *testing.T, id uuid.UUID, it *types.Itinerary, createdAt time.Time) *pgxmock.Rows {
	t.Helper()
	daysJSON, err := json.Marshal(it.Days)
	require.NoError(t, err)
	return pgxmock.NewRows([]string{
		"id", "destination", "latitude", "longitude", "start_date", "end_date",
		"duration_days", "days", "summary", "tips", "provenance", "created_at", "updated_at",
	}).AddRow(
		id, it.Destination, it.Coordinates.Latitude, it.Coordinates.Longitude,
		it.StartDate, it.EndDate, it.DurationDays, daysJSON,
		it.Summary, it.Tips, string(it.Provenance), createdAt, createdAt,
	)
}

func TestRepositoryImpl_SaveItinerary(t *testing.T) {
	t.Run("success assigns id and timestamps", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		it := storedItinerary()
		id := uuid.New()
		now := time.Now()

		mockPool.ExpectQuery(`INSERT INTO itineraries`).
			WithArgs(it.Destination, it.Coordinates.Latitude, it.Coordinates.Longitude,
				it.StartDate, it.EndDate, it.DurationDays, pgxmock.AnyArg(),
				it.Summary, it.Tips, string(it.Provenance)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(id, now, now))

		got, err := repo.SaveItinerary(context.Background(), it)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, id, it.ID)
		assert.Equal(t, now, it.CreatedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("insert failure is wrapped", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		it := storedItinerary()

		mockPool.ExpectQuery(`INSERT INTO itineraries`).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.SaveItinerary(context.Background(), it)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert itinerary")
	})
}

func TestRepositoryImpl_GetItinerary(t *testing.T) {
	t.Run("success round-trips the days document", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		it := storedItinerary()
		id := uuid.New()

		mockPool.ExpectQuery(`SELECT (.+) FROM itineraries`).
			WithArgs(id).
			WillReturnRows(itineraryRow(t, id, it, time.Now()))

		got, err := repo.GetItinerary(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Lisbon", got.Destination)
		assert.Equal(t, types.ProvenanceFallback, got.Provenance)
		require.Len(t, got.Days, 3)
		assert.Equal(t, it.Days[0].Activities[0].ID, got.Days[0].Activities[0].ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrItineraryNotFound", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		id := uuid.New()

		mockPool.ExpectQuery(`SELECT (.+) FROM itineraries`).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetItinerary(context.Background(), id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrItineraryNotFound))
	})
}

func TestRepositoryImpl_ListItineraries(t *testing.T) {
	t.Run("returns newest first up to limit", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		it := storedItinerary()
		first, second := uuid.New(), uuid.New()

		rows := itineraryRow(t, first, it, time.Now())
		daysJSON, err := json.Marshal(it.Days)
		require.NoError(t, err)
		rows.AddRow(second, "Porto", 41.1579, -8.6291, it.StartDate, it.EndDate,
			it.DurationDays, daysJSON, it.Summary, it.Tips, string(it.Provenance),
			time.Now().Add(-time.Hour), time.Now().Add(-time.Hour))

		mockPool.ExpectQuery(`SELECT (.+) FROM itineraries ORDER BY created_at DESC`).
			WithArgs(10).
			WillReturnRows(rows)

		list, err := repo.ListItineraries(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first, list[0].ID)
		assert.Equal(t, "Porto", list[1].Destination)
	})

	t.Run("out-of-range limit falls back to default", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery(`SELECT (.+) FROM itineraries ORDER BY created_at DESC`).
			WithArgs(50).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "destination", "latitude", "longitude", "start_date", "end_date",
				"duration_days", "days", "summary", "tips", "provenance", "created_at", "updated_at",
			}))

		list, err := repo.ListItineraries(context.Background(), -3)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestRepositoryImpl_DeleteItinerary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		id := uuid.New()

		mockPool.ExpectExec(`DELETE FROM itineraries`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteItinerary(context.Background(), id))
	})

	t.Run("no rows affected maps to ErrItineraryNotFound", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		id := uuid.New()

		mockPool.ExpectExec(`DELETE FROM itineraries`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteItinerary(context.Background(), id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrItineraryNotFound))
	})
}

func TestRepositoryImpl_ReplaceDay(t *testing.T) {
	t.Run("swaps only the matching day", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		it := storedItinerary()
		id := uuid.New()

		mockPool.ExpectQuery(`SELECT (.+) FROM itineraries`).
			WithArgs(id).
			WillReturnRows(itineraryRow(t, id, it, time.Now()))
		mockPool.ExpectExec(`UPDATE itineraries SET days`).
			WithArgs(pgxmock.AnyArg(), id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		newDay := types.DayPlan{
			Day:  2,
			Date: it.StartDate.AddDate(0, 0, 1),
			Activities: []types.Activity{{
				ID: "activity-1-0", Name: "Tram ride", Time: "10:00",
				DurationMinutes: 120, Category: types.CategoryTransport,
			}},
		}

		got, err := repo.ReplaceDay(context.Background(), id, newDay)
		require.NoError(t, err)
		require.Len(t, got.Days, 3)
		assert.Equal(t, "Tram ride", got.Days[1].Activities[0].Name)
		assert.Equal(t, it.Days[0].Activities[0].Name, got.Days[0].Activities[0].Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("unknown day number maps to ErrItineraryNotFound", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		it := storedItinerary()
		id := uuid.New()

		mockPool.ExpectQuery(`SELECT (.+) FROM itineraries`).
			WithArgs(id).
			WillReturnRows(itineraryRow(t, id, it, time.Now()))

		_, err := repo.ReplaceDay(context.Background(), id, types.DayPlan{Day: 9})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrItineraryNotFound))
	})
}
