package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tripforge/go-trip-planner/internal/types"
)

// ErrItineraryNotFound is returned when the requested itinerary id does not exist.
var ErrItineraryNotFound = errors.New("itinerary not found")

// PGXPool is the subset of pgxpool.Pool the repository needs; it lets tests
// substitute pgxmock.
type PGXPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists assembled itineraries. The synthesis core itself is
// stateless; persistence happens at the handler layer after ownership of
// the itinerary has passed out of the pipeline.
type Repository interface {
	SaveItinerary(ctx context.Context, it *types.Itinerary) (uuid.UUID, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*types.Itinerary, error)
	ListItineraries(ctx context.Context, limit int) ([]*types.Itinerary, error)
	DeleteItinerary(ctx context.Context, id uuid.UUID) error
	ReplaceDay(ctx context.Context, id uuid.UUID, day types.DayPlan) (*types.Itinerary, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewRepository(pgpool PGXPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) SaveItinerary(ctx context.Context, it *types.Itinerary) (uuid.UUID, error) {
	daysJSON, err := json.Marshal(it.Days)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal itinerary days: %w", err)
	}

	query := `
        INSERT INTO itineraries (
            destination, latitude, longitude, start_date, end_date,
            duration_days, days, summary, tips, provenance
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at
    `
	var id uuid.UUID
	var createdAt, updatedAt time.Time
	err = r.pgpool.QueryRow(ctx, query,
		it.Destination, it.Coordinates.Latitude, it.Coordinates.Longitude,
		it.StartDate, it.EndDate, it.DurationDays, daysJSON,
		it.Summary, it.Tips, string(it.Provenance),
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert itinerary", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("insert itinerary: %w", err)
	}

	it.ID = id
	it.CreatedAt = createdAt
	it.UpdatedAt = updatedAt
	return id, nil
}

func (r *RepositoryImpl) GetItinerary(ctx context.Context, id uuid.UUID) (*types.Itinerary, error) {
	query := `
        SELECT id, destination, latitude, longitude, start_date, end_date,
               duration_days, days, summary, tips, provenance, created_at, updated_at
        FROM itineraries
        WHERE id = $1
    `
	it, err := scanItinerary(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("itinerary %s: %w", id, ErrItineraryNotFound)
		}
		return nil, fmt.Errorf("fetch itinerary: %w", err)
	}
	return it, nil
}

func (r *RepositoryImpl) ListItineraries(ctx context.Context, limit int) ([]*types.Itinerary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `
        SELECT id, destination, latitude, longitude, start_date, end_date,
               duration_days, days, summary, tips, provenance, created_at, updated_at
        FROM itineraries
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	defer rows.Close()

	var list []*types.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan itinerary row: %w", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate itinerary rows: %w", err)
	}
	return list, nil
}

func (r *RepositoryImpl) DeleteItinerary(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itinerary %s: %w", id, ErrItineraryNotFound)
	}
	return nil
}

// ReplaceDay swaps a single day in the stored days document, leaving every
// other day untouched, and returns the updated itinerary.
func (r *RepositoryImpl) ReplaceDay(ctx context.Context, id uuid.UUID, day types.DayPlan) (*types.Itinerary, error) {
	it, err := r.GetItinerary(ctx, id)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range it.Days {
		if it.Days[i].Day == day.Day {
			it.Days[i] = day
			replaced = true
			break
		}
	}
	if !replaced {
		return nil, fmt.Errorf("day %d not in itinerary %s: %w", day.Day, id, ErrItineraryNotFound)
	}

	daysJSON, err := json.Marshal(it.Days)
	if err != nil {
		return nil, fmt.Errorf("marshal itinerary days: %w", err)
	}
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE itineraries SET days = $1, updated_at = now() WHERE id = $2`,
		daysJSON, id)
	if err != nil {
		return nil, fmt.Errorf("update itinerary days: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("itinerary %s: %w", id, ErrItineraryNotFound)
	}
	return it, nil
}

func scanItinerary(row pgx.Row) (*types.Itinerary, error) {
	var it types.Itinerary
	var daysJSON []byte
	var provenance string
	err := row.Scan(
		&it.ID, &it.Destination, &it.Coordinates.Latitude, &it.Coordinates.Longitude,
		&it.StartDate, &it.EndDate, &it.DurationDays, &daysJSON,
		&it.Summary, &it.Tips, &provenance, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(daysJSON, &it.Days); err != nil {
		return nil, fmt.Errorf("unmarshal itinerary days: %w", err)
	}
	it.Provenance = types.Provenance(provenance)
	return &it, nil
}
