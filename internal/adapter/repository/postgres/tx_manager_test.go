package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestTxManagerCommitsLedgerWrite(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs("txn-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected begin error: %v", err)
	}

	// Repositories reach the raw pgx transaction through PgxTx.
	if _, err := tx.(*Tx).PgxTx().Exec(context.Background(), "INSERT INTO transactions", "txn-1"); err != nil {
		t.Fatalf("exec inside transaction failed: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTxManagerBeginError(t *testing.T) {
	mockPool := newMockPool(t)
	beginErr := errors.New("pool exhausted")
	mockPool.ExpectBegin().WillReturnError(beginErr)

	manager := newTxManagerWithPool(mockPool)
	if _, err := manager.Begin(context.Background()); !errors.Is(err, beginErr) {
		t.Fatalf("expected begin error to propagate, got %v", err)
	}
}

func TestTxRollbackDiscardsWrite(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected begin error: %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTxCommitErrorPropagates(t *testing.T) {
	mockPool := newMockPool(t)
	commitErr := errors.New("connection reset")
	mockPool.ExpectBegin()
	mockPool.ExpectCommit().WillReturnError(commitErr)

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected begin error: %v", err)
	}

	if err := tx.Commit(context.Background()); !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error to propagate, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
