package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tripledger/tripledger/internal/calculator"
	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
	"github.com/tripledger/tripledger/internal/usecase/mocks"
)

type statsFixture struct {
	tripRepo     *mocks.MockTripRepository
	memberRepo   *mocks.MockMemberRepository
	walletRepo   *mocks.MockWalletRepository
	categoryRepo *mocks.MockCategoryRepository
	txnRepo      *mocks.MockTransactionRepository
	cache        *mocks.MockCache
	uc           *usecase.StatsUseCase
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()

	f := &statsFixture{
		tripRepo:     mocks.NewMockTripRepository(),
		memberRepo:   mocks.NewMockMemberRepository(),
		walletRepo:   mocks.NewMockWalletRepository(),
		categoryRepo: mocks.NewMockCategoryRepository(),
		txnRepo:      mocks.NewMockTransactionRepository(),
		cache:        mocks.NewMockCache(),
	}

	f.uc = usecase.NewStatsUseCase(f.tripRepo, f.memberRepo, f.walletRepo, f.categoryRepo, f.txnRepo, f.cache)

	ctx := context.Background()
	f.tripRepo.Create(ctx, &domain.Trip{ID: "trip-1", Name: "Alps", Status: domain.TripStatusActive})
	for _, id := range []string{"a", "b", "c"} {
		f.memberRepo.Create(ctx, &domain.Member{ID: id, TripID: "trip-1", Name: id})
	}

	f.txnRepo.CreateTx(ctx, nil, &domain.Transaction{
		ID:      "t1",
		TripID:  "trip-1",
		Type:    domain.TxnTypeExpense,
		Amount:  90,
		PayerID: "a",
		Splits: []domain.Split{
			{MemberID: "a", Share: 1},
			{MemberID: "b", Share: 1},
			{MemberID: "c", Share: 1},
		},
	})

	return f
}

func TestStatsBalances(t *testing.T) {
	f := newStatsFixture(t)

	balances, err := f.uc.Balances(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int64{"a": 60, "b": -30, "c": -30}
	for id, b := range want {
		if balances[id] != b {
			t.Errorf("balance[%s]: expected %d, got %d", id, b, balances[id])
		}
	}
}

func TestStatsBalancesUnknownTrip(t *testing.T) {
	f := newStatsFixture(t)

	_, err := f.uc.Balances(context.Background(), "trip-missing")
	if !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestStatsBalancesCaching(t *testing.T) {
	f := newStatsFixture(t)

	txns, err := f.txnRepo.ListByTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var listCalls atomic.Int64
	f.txnRepo.ListByTripFunc = func(ctx context.Context, tripID string) ([]*domain.Transaction, error) {
		listCalls.Add(1)
		return txns, nil
	}

	first, err := f.uc.Balances(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}


	second, err := f.uc.Balances(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listCalls.Load() != 1 {
		t.Errorf("expected the second read to come from cache, repo was hit %d times", listCalls.Load())
	}

	if len(first) != len(second) {
		t.Errorf("cached result differs from computed result")
	}
	for id, b := range first {
		if second[id] != b {
			t.Errorf("cached balance[%s]: expected %d, got %d", id, b, second[id])
		}
	}
}

func TestStatsBalancesCacheInvalidatedByVersionBump(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Balances(ctx, "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A write bumps the trip version and records a new transaction.
	f.txnRepo.CreateTx(ctx, nil, &domain.Transaction{
		ID:      "t2",
		TripID:  "trip-1",
		Type:    domain.TxnTypeTransfer,
		Amount:  30,
		PayerID: "b",
		Splits:  []domain.Split{{MemberID: "a", Share: 1}},
	})
	if _, err := f.tripRepo.BumpVersion(ctx, nil, "trip-1", time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balances, err := f.uc.Balances(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balances["b"] != 0 {
		t.Errorf("expected fresh balance 0 for b after transfer, got %d", balances["b"])
	}
}

func TestStatsSettlement(t *testing.T) {
	f := newStatsFixture(t)

	transfers, err := f.uc.Settlement(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []calculator.Transfer{
		{FromMemberID: "b", ToMemberID: "a", Amount: 30},
		{FromMemberID: "c", ToMemberID: "a", Amount: 30},
	}

	if len(transfers) != len(want) {
		t.Fatalf("expected %d transfers, got %d", len(want), len(transfers))
	}
	for i, tr := range want {
		if transfers[i] != tr {
			t.Errorf("transfer %d: expected %+v, got %+v", i, tr, transfers[i])
		}
	}
}

func TestStatsBalancesSurfacesUnknownMember(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	// Simulate a member deleted after their transactions were recorded.
	f.memberRepo.Delete(ctx, "c")

	_, err := f.uc.Balances(ctx, "trip-1")

	var unknownErr *domain.UnknownMemberError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownMemberError, got %v", err)
	}
	if unknownErr.MemberID != "c" {
		t.Errorf("expected member c, got %s", unknownErr.MemberID)
	}
}

func TestStatsCheckConsistency(t *testing.T) {
	f := newStatsFixture(t)

	if err := f.uc.CheckConsistency(context.Background(), "trip-1"); err != nil {
		t.Fatalf("expected a consistent ledger, got %v", err)
	}
}

func TestStatsWalletSummaries(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	walletID := "w-1"
	f.walletRepo.Create(ctx, &domain.Wallet{ID: walletID, TripID: "trip-1", Name: "Pool", MemberIDs: []string{"a", "b"}})
	f.txnRepo.CreateTx(ctx, nil, &domain.Transaction{
		ID:       "t-w1",
		TripID:   "trip-1",
		Type:     domain.TxnTypeTransfer,
		Amount:   400,
		PayerID:  "a",
		WalletID: &walletID,
		Splits:   []domain.Split{{MemberID: "a", Share: 1}, {MemberID: "b", Share: 1}},
	})

	summaries, err := f.uc.WalletSummaries(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summaries) != 1 {
		t.Fatalf("expected 1 wallet summary, got %d", len(summaries))
	}
	if summaries[0].TotalInflow != 400 {
		t.Errorf("expected inflow 400, got %d", summaries[0].TotalInflow)
	}
	if summaries[0].TransactionCount != 1 {
		t.Errorf("expected 1 wallet transaction, got %d", summaries[0].TransactionCount)
	}
}

func TestStatsSummaryAcrossTrips(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	f.tripRepo.Create(ctx, &domain.Trip{ID: "trip-2", Name: "Coast", Status: domain.TripStatusActive})
	f.memberRepo.Create(ctx, &domain.Member{ID: "z", TripID: "trip-2", Name: "z"})
	f.txnRepo.CreateTx(ctx, nil, &domain.Transaction{
		ID:      "t-2",
		TripID:  "trip-2",
		Type:    domain.TxnTypeExpense,
		Amount:  60,
		PayerID: "z",
		Splits:  []domain.Split{{MemberID: "z", Share: 1}},
	})

	// The empty trip id aggregates every trip.
	summary, err := f.uc.Summary(ctx, "", calculator.Range{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Outflow != 150 {
		t.Errorf("expected outflow 150 across both trips, got %d", summary.Outflow)
	}

	scoped, err := f.uc.Summary(ctx, "trip-2", calculator.Range{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scoped.Outflow != 60 {
		t.Errorf("expected trip-scoped outflow 60, got %d", scoped.Outflow)
	}
}

func TestStatsSummaryUnknownTrip(t *testing.T) {
	f := newStatsFixture(t)

	_, err := f.uc.Summary(context.Background(), "trip-missing", calculator.Range{})
	if !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestStatsPerPerson(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	f.categoryRepo.Create(ctx, &domain.Category{ID: "c-food", Name: "Food"})

	report, err := f.uc.PerPerson(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalExpense != 90 {
		t.Errorf("expected total expense 90, got %d", report.TotalExpense)
	}
	if report.MemberCount != 3 {
		t.Errorf("expected 3 members, got %d", report.MemberCount)
	}
	if report.AverageExpense != 30 {
		t.Errorf("expected average 30, got %d", report.AverageExpense)
	}
}
