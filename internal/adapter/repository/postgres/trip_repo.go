package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
)

// TripRepository implements usecase.TripRepository.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

// Create inserts a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, name, description, status, start_date, end_date, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.Name,
		trip.Description,
		trip.Status,
		trip.StartDate,
		trip.EndDate,
		trip.Version,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, name, description, status, start_date, end_date, version, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var trip domain.Trip
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.Status,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Version,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTripNotFound
	}

	return &trip, err
}

// List retrieves trips with pagination, optionally filtered by status.
func (r *TripRepository) List(ctx context.Context, status string, limit, offset int) ([]*domain.Trip, error) {
	query := `
		SELECT id, name, description, status, start_date, end_date, version, created_at, updated_at
		FROM trips
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.Name,
			&trip.Description,
			&trip.Status,
			&trip.StartDate,
			&trip.EndDate,
			&trip.Version,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	return trips, rows.Err()
}

// Update updates a trip's mutable fields.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET name = $2, description = $3, status = $4, start_date = $5, end_date = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.Name,
		trip.Description,
		trip.Status,
		trip.StartDate,
		trip.EndDate,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}

	return nil
}

// Delete removes a trip. Members, wallets and transactions cascade at the
// schema level.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}

	return nil
}

// BumpVersion increments the trip's ledger version inside the given
// transaction and returns the new version.
func (r *TripRepository) BumpVersion(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE trips
		SET version = version + 1, updated_at = $2
		WHERE id = $1
		RETURNING version
	`

	var version int64
	err := pgxTx.QueryRow(ctx, query, id, updatedAt).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrTripNotFound
	}

	return version, err
}
