package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Splits
// live in the transaction_splits table and are always loaded with their
// transaction; a transaction without its splits is useless to the balance
// engine.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, trip_id, wallet_id, category_id, type, payer_id, note, amount, occurred_at, created_at, updated_at`

// CreateTx inserts a transaction and its splits inside tx.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if _, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.TripID,
		txn.WalletID,
		txn.CategoryID,
		txn.Type,
		txn.PayerID,
		txn.Note,
		txn.Amount,
		txn.OccurredAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	); err != nil {
		return err
	}

	return insertSplits(ctx, pgxTx, txn.ID, txn.Splits)
}

// GetByID retrieves a transaction with its splits.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	var txn domain.Transaction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.TripID,
		&txn.WalletID,
		&txn.CategoryID,
		&txn.Type,
		&txn.PayerID,
		&txn.Note,
		&txn.Amount,
		&txn.OccurredAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	splits, err := r.loadSplits(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	txn.Splits = splits[id]

	return &txn, nil
}

// UpdateTx rewrites a transaction and replaces its splits inside tx.
func (r *TransactionRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE transactions
		SET wallet_id = $2, category_id = $3, type = $4, payer_id = $5, note = $6,
		    amount = $7, occurred_at = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.WalletID,
		txn.CategoryID,
		txn.Type,
		txn.PayerID,
		txn.Note,
		txn.Amount,
		txn.OccurredAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	if _, err := pgxTx.Exec(ctx, `DELETE FROM transaction_splits WHERE transaction_id = $1`, txn.ID); err != nil {
		return err
	}

	return insertSplits(ctx, pgxTx, txn.ID, txn.Splits)
}

// DeleteTx removes a transaction inside tx. Splits cascade.
func (r *TransactionRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// List retrieves transactions matching the filter, oldest first.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TripID != "" {
		conds = append(conds, "trip_id = "+arg(filter.TripID))
	}
	if filter.WalletID != "" {
		conds = append(conds, "wallet_id = "+arg(filter.WalletID))
	}
	if filter.CategoryID != "" {
		conds = append(conds, "category_id = "+arg(filter.CategoryID))
	}
	if filter.Type != "" {
		conds = append(conds, "type = "+arg(filter.Type))
	}
	if filter.From != nil {
		conds = append(conds, "occurred_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "occurred_at <= "+arg(*filter.To))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at, id"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)
	}

	return r.queryTransactions(ctx, query, args...)
}

// ListByTrip retrieves the full transaction history of a trip, oldest
// first. An empty tripID selects every trip, which backs the global
// aggregation views. This is the input to balance folding, so it is never
// paginated.
func (r *TransactionRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ($1 = '' OR trip_id = $1)
		ORDER BY occurred_at, id
	`

	return r.queryTransactions(ctx, query, tripID)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		txns []*domain.Transaction
		ids  []string
	)
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.TripID,
			&txn.WalletID,
			&txn.CategoryID,
			&txn.Type,
			&txn.PayerID,
			&txn.Note,
			&txn.Amount,
			&txn.OccurredAt,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		); err != nil {
			return nil, err
		}
		txns = append(txns, &txn)
		ids = append(ids, txn.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(txns) == 0 {
		return txns, nil
	}

	splits, err := r.loadSplits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, txn := range txns {
		txn.Splits = splits[txn.ID]
	}

	return txns, nil
}

// loadSplits fetches the splits of all given transactions in one query,
// preserving insertion order within each transaction.
func (r *TransactionRepository) loadSplits(ctx context.Context, txnIDs []string) (map[string][]domain.Split, error) {
	query := `
		SELECT transaction_id, member_id, share
		FROM transaction_splits
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, position
	`

	rows, err := r.pool.Query(ctx, query, txnIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	splits := make(map[string][]domain.Split, len(txnIDs))
	for rows.Next() {
		var (
			txnID string
			split domain.Split
		)
		if err := rows.Scan(&txnID, &split.MemberID, &split.Share); err != nil {
			return nil, err
		}
		splits[txnID] = append(splits[txnID], split)
	}

	return splits, rows.Err()
}

func insertSplits(ctx context.Context, tx pgx.Tx, txnID string, splits []domain.Split) error {
	// Position keeps input order stable so remainder distribution is
	// reproducible across reads.
	for i, split := range splits {
		if _, err := tx.Exec(ctx,
			`INSERT INTO transaction_splits (transaction_id, position, member_id, share) VALUES ($1, $2, $3, $4)`,
			txnID, i, split.MemberID, split.Share,
		); err != nil {
			return err
		}
	}

	return nil
}
