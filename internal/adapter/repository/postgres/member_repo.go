package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripledger/tripledger/internal/domain"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Create inserts a new member.
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (id, trip_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		member.ID,
		member.TripID,
		member.Name,
		member.CreatedAt,
	)

	return err
}

// GetByID retrieves a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `
		SELECT id, trip_id, name, created_at
		FROM members
		WHERE id = $1
	`

	var member domain.Member
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.TripID,
		&member.Name,
		&member.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}

	return &member, err
}

// ListByTrip retrieves the full roster of a trip ordered by join time.
func (r *MemberRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Member, error) {
	query := `
		SELECT id, trip_id, name, created_at
		FROM members
		WHERE trip_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		var member domain.Member
		if err := rows.Scan(
			&member.ID,
			&member.TripID,
			&member.Name,
			&member.CreatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, &member)
	}

	return members, rows.Err()
}

// Update updates a member's name.
func (r *MemberRepository) Update(ctx context.Context, member *domain.Member) error {
	tag, err := r.pool.Exec(ctx, `UPDATE members SET name = $2 WHERE id = $1`, member.ID, member.Name)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// Delete removes a member.
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// CountReferences counts transactions that name the member as payer plus
// splits that allocate to them.
func (r *MemberRepository) CountReferences(ctx context.Context, memberID string) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM transactions WHERE payer_id = $1) +
			(SELECT COUNT(*) FROM transaction_splits WHERE member_id = $1)
	`

	var count int64
	err := r.pool.QueryRow(ctx, query, memberID).Scan(&count)

	return count, err
}
