package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
	"github.com/tripledger/tripledger/internal/usecase/mocks"
)

type txnFixture struct {
	tripRepo   *mocks.MockTripRepository
	memberRepo *mocks.MockMemberRepository
	walletRepo *mocks.MockWalletRepository
	txnRepo    *mocks.MockTransactionRepository
	uc         *usecase.TransactionUseCase
}

func newTxnFixture(t *testing.T) *txnFixture {
	t.Helper()

	f := &txnFixture{
		tripRepo:   mocks.NewMockTripRepository(),
		memberRepo: mocks.NewMockMemberRepository(),
		walletRepo: mocks.NewMockWalletRepository(),
		txnRepo:    mocks.NewMockTransactionRepository(),
	}

	f.uc = usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		f.tripRepo,
		f.memberRepo,
		f.walletRepo,
		f.txnRepo,
		mocks.NewMockIDGenerator(),
	)

	f.tripRepo.Create(context.Background(), &domain.Trip{
		ID:     "trip-1",
		Name:   "Alps",
		Status: domain.TripStatusActive,
	})

	for _, id := range []string{"m-a", "m-b", "m-c"} {
		f.memberRepo.Create(context.Background(), &domain.Member{ID: id, TripID: "trip-1", Name: id})
	}

	return f
}

func TestCreateTransaction(t *testing.T) {
	f := newTxnFixture(t)

	txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  9000,
		PayerID: "m-a",
		Splits: []domain.Split{
			{MemberID: "m-a", Share: 1},
			{MemberID: "m-b", Share: 1},
			{MemberID: "m-c", Share: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.ID == "" {
		t.Error("expected a generated transaction ID")
	}

	stored, err := f.txnRepo.GetByID(context.Background(), txn.ID)
	if err != nil {
		t.Fatalf("transaction was not persisted: %v", err)
	}
	if stored.Amount != 9000 {
		t.Errorf("expected amount 9000, got %d", stored.Amount)
	}
}

func TestCreateTransactionBumpsTripVersion(t *testing.T) {
	f := newTxnFixture(t)

	_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  100,
		PayerID: "m-a",
		Splits:  []domain.Split{{MemberID: "m-b", Share: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip, err := f.tripRepo.GetByID(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Version != 1 {
		t.Errorf("expected trip version 1 after a write, got %d", trip.Version)
	}
}

func TestCreateTransactionRejectsNonMemberPayer(t *testing.T) {
	f := newTxnFixture(t)

	_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  100,
		PayerID: "stranger",
		Splits:  []domain.Split{{MemberID: "m-a", Share: 1}},
	})

	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestCreateTransactionRejectsZeroAmount(t *testing.T) {
	f := newTxnFixture(t)

	_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  0,
		PayerID: "m-a",
		Splits:  []domain.Split{{MemberID: "m-a", Share: 1}},
	})

	if !errors.Is(err, domain.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
}

func TestCreateTransactionRejectsForeignWallet(t *testing.T) {
	f := newTxnFixture(t)

	f.walletRepo.Create(context.Background(), &domain.Wallet{
		ID:     "w-other",
		TripID: "trip-2",
		Name:   "Other pool",
	})

	walletID := "w-other"
	_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:   "trip-1",
		WalletID: &walletID,
		Type:     domain.TxnTypeExpense,
		Amount:   100,
		PayerID:  "m-a",
		Splits:   []domain.Split{{MemberID: "m-a", Share: 1}},
	})

	if !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestCreateTransactionUnknownTrip(t *testing.T) {
	f := newTxnFixture(t)

	_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-missing",
		Type:    domain.TxnTypeExpense,
		Amount:  100,
		PayerID: "m-a",
		Splits:  []domain.Split{{MemberID: "m-a", Share: 1}},
	})

	if !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestCreateTransactionUsesRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTxnFixture(t)

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().
		Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, op func() error) error {
			return op()
		})

	f.uc.WithRetrier(retrier)

	_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  100,
		PayerID: "m-a",
		Splits:  []domain.Split{{MemberID: "m-b", Share: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateTransactionRevalidates(t *testing.T) {
	f := newTxnFixture(t)

	txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  100,
		PayerID: "m-a",
		Splits:  []domain.Split{{MemberID: "m-b", Share: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	badPayer := "stranger"
	_, err = f.uc.UpdateTransaction(context.Background(), txn.ID, usecase.UpdateTransactionInput{
		PayerID: &badPayer,
	})

	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	f := newTxnFixture(t)

	txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  100,
		PayerID: "m-a",
		Splits:  []domain.Split{{MemberID: "m-b", Share: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.uc.DeleteTransaction(context.Background(), txn.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.GetTransaction(context.Background(), txn.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	trip, _ := f.tripRepo.GetByID(context.Background(), "trip-1")
	if trip.Version != 2 {
		t.Errorf("expected version 2 after create and delete, got %d", trip.Version)
	}
}

func TestDeleteTransactionOccurredAtDefault(t *testing.T) {
	f := newTxnFixture(t)

	before := time.Now().UTC().Add(-time.Second)

	txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		TripID:  "trip-1",
		Type:    domain.TxnTypeTransfer,
		Amount:  100,
		PayerID: "m-a",
		Splits:  []domain.Split{{MemberID: "m-b", Share: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.OccurredAt.Before(before) {
		t.Errorf("expected OccurredAt to default to now, got %v", txn.OccurredAt)
	}
}
