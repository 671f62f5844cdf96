package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripledger/tripledger/internal/domain"
)

// WalletRepository implements usecase.WalletRepository. Wallet membership
// lives in the wallet_members join table and is loaded with every wallet.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a wallet and its participant links atomically.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO wallets (id, trip_id, name, target_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := tx.Exec(ctx, query,
		wallet.ID,
		wallet.TripID,
		wallet.Name,
		wallet.TargetBalance,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	); err != nil {
		return err
	}

	if err := insertWalletMembers(ctx, tx, wallet.ID, wallet.MemberIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a wallet with its participant set.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `
		SELECT id, trip_id, name, target_balance, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`

	var wallet domain.Wallet
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&wallet.ID,
		&wallet.TripID,
		&wallet.Name,
		&wallet.TargetBalance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	wallet.MemberIDs, err = r.loadMembers(ctx, id)

	return &wallet, err
}

// ListByTrip retrieves all wallets of a trip.
func (r *WalletRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Wallet, error) {
	query := `
		SELECT id, trip_id, name, target_balance, created_at, updated_at
		FROM wallets
		WHERE trip_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		var wallet domain.Wallet
		if err := rows.Scan(
			&wallet.ID,
			&wallet.TripID,
			&wallet.Name,
			&wallet.TargetBalance,
			&wallet.CreatedAt,
			&wallet.UpdatedAt,
		); err != nil {
			return nil, err
		}
		wallets = append(wallets, &wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, wallet := range wallets {
		wallet.MemberIDs, err = r.loadMembers(ctx, wallet.ID)
		if err != nil {
			return nil, err
		}
	}

	return wallets, nil
}

// Update updates a wallet's name and target balance.
func (r *WalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, target_balance = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		wallet.ID,
		wallet.Name,
		wallet.TargetBalance,
		wallet.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// Delete removes a wallet. Transactions keep their rows; the schema nulls
// out their wallet reference.
func (r *WalletRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// ReplaceMembers swaps the wallet's participant set in one transaction.
func (r *WalletRepository) ReplaceMembers(ctx context.Context, walletID string, memberIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM wallet_members WHERE wallet_id = $1`, walletID); err != nil {
		return err
	}

	if err := insertWalletMembers(ctx, tx, walletID, memberIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *WalletRepository) loadMembers(ctx context.Context, walletID string) ([]string, error) {
	query := `
		SELECT member_id
		FROM wallet_members
		WHERE wallet_id = $1
		ORDER BY member_id
	`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func insertWalletMembers(ctx context.Context, tx pgx.Tx, walletID string, memberIDs []string) error {
	for _, memberID := range memberIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO wallet_members (wallet_id, member_id) VALUES ($1, $2)`,
			walletID, memberID,
		); err != nil {
			return err
		}
	}

	return nil
}
