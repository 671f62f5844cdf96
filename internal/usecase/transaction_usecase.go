package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/infrastructure/metrics"
)

// TransactionUseCase handles ledger transaction business logic. Every write
// runs inside a database transaction that also bumps the trip's ledger
// version, which invalidates cached statistics for the trip.
type TransactionUseCase struct {
	txManager  TransactionManager
	tripRepo   TripRepository
	memberRepo MemberRepository
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	memberRepo MemberRepository,
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:  txManager,
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		idGen:      idGen,
	}
}

// WithRetrier enables retry on transient database errors.
func (uc *TransactionUseCase) WithRetrier(r Retrier) *TransactionUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics attaches Prometheus instrumentation.
func (uc *TransactionUseCase) WithMetrics(m *metrics.Metrics) *TransactionUseCase {
	uc.metrics = m
	return uc
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	OccurredAt *time.Time
	WalletID   *string
	TripID     string
	CategoryID string
	Type       string
	PayerID    string
	Note       string
	Amount     int64
	Splits     []domain.Split
}

// CreateTransaction validates and records a transaction.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if _, err := uc.tripRepo.GetByID(ctx, input.TripID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	txn := &domain.Transaction{
		ID:         uc.idGen.Generate(),
		TripID:     input.TripID,
		WalletID:   input.WalletID,
		CategoryID: input.CategoryID,
		Type:       input.Type,
		PayerID:    input.PayerID,
		Note:       input.Note,
		Amount:     input.Amount,
		Splits:     input.Splits,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.validate(ctx, txn); err != nil {
		return nil, err
	}

	err := uc.withRetry(ctx, func() error {
		return uc.writeTransaction(ctx, txn, func(tx Transaction) error {
			return uc.txnRepo.CreateTx(ctx, tx, txn)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsRecorded.WithLabelValues(txn.Type).Inc()

		amount := txn.Amount
		if amount < 0 {
			amount = -amount
		}
		uc.metrics.TransactionAmount.Observe(float64(amount))
	}

	return txn, nil
}

// GetTransaction retrieves a transaction by ID, splits included.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListTransactions lists transactions matching the filter.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	return uc.txnRepo.List(ctx, filter)
}

// UpdateTransactionInput represents input for editing a transaction. Nil
// fields are left unchanged; a non-nil Splits replaces the split set.
type UpdateTransactionInput struct {
	OccurredAt *time.Time
	WalletID   *string
	CategoryID *string
	Type       *string
	PayerID    *string
	Note       *string
	Amount     *int64
	Splits     []domain.Split
}

// UpdateTransaction edits a recorded transaction and revalidates it
// against the roster.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.OccurredAt != nil {
		txn.OccurredAt = input.OccurredAt.UTC()
	}
	if input.WalletID != nil {
		txn.WalletID = input.WalletID
	}
	if input.CategoryID != nil {
		txn.CategoryID = *input.CategoryID
	}
	if input.Type != nil {
		txn.Type = *input.Type
	}
	if input.PayerID != nil {
		txn.PayerID = *input.PayerID
	}
	if input.Note != nil {
		txn.Note = *input.Note
	}
	if input.Amount != nil {
		txn.Amount = *input.Amount
	}
	if input.Splits != nil {
		txn.Splits = input.Splits
	}
	txn.UpdatedAt = time.Now().UTC()

	if err := uc.validate(ctx, txn); err != nil {
		return nil, err
	}

	err = uc.withRetry(ctx, func() error {
		return uc.writeTransaction(ctx, txn, func(tx Transaction) error {
			return uc.txnRepo.UpdateTx(ctx, tx, txn)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	return txn, nil
}

// DeleteTransaction removes a transaction and its splits.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = uc.withRetry(ctx, func() error {
		return uc.writeTransaction(ctx, txn, func(tx Transaction) error {
			return uc.txnRepo.DeleteTx(ctx, tx, id)
		})
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	return nil
}

// writeTransaction runs op and the trip version bump in one database
// transaction so readers never observe a write without an invalidated
// statistics cache.
func (uc *TransactionUseCase) writeTransaction(ctx context.Context, txn *domain.Transaction, op func(tx Transaction) error) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := op(tx); err != nil {
		return err
	}

	if _, err := uc.tripRepo.BumpVersion(ctx, tx, txn.TripID, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *TransactionUseCase) validate(ctx context.Context, txn *domain.Transaction) error {
	members, err := uc.memberRepo.ListByTrip(ctx, txn.TripID)
	if err != nil {
		return err
	}

	roster := make(map[string]bool, len(members))
	for _, m := range members {
		roster[m.ID] = true
	}

	if err := txn.Validate(roster); err != nil {
		return err
	}

	if txn.WalletID != nil {
		wallet, err := uc.walletRepo.GetByID(ctx, *txn.WalletID)
		if err != nil {
			return err
		}

		if wallet.TripID != txn.TripID {
			return fmt.Errorf("wallet %s belongs to another trip: %w", wallet.ID, domain.ErrWalletNotFound)
		}
	}

	return nil
}

func (uc *TransactionUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}
