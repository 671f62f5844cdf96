package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
	"github.com/tripledger/tripledger/internal/usecase/mocks"
)

func newWalletFixture(t *testing.T) *usecase.WalletUseCase {
	t.Helper()

	tripRepo := mocks.NewMockTripRepository()
	memberRepo := mocks.NewMockMemberRepository()
	walletRepo := mocks.NewMockWalletRepository()

	ctx := context.Background()
	tripRepo.Create(ctx, &domain.Trip{ID: "trip-1", Name: "Alps", Status: domain.TripStatusActive})
	for _, id := range []string{"m-a", "m-b", "m-c"} {
		memberRepo.Create(ctx, &domain.Member{ID: id, TripID: "trip-1", Name: id})
	}

	return usecase.NewWalletUseCase(tripRepo, memberRepo, walletRepo, mocks.NewMockIDGenerator())
}

func TestCreateWallet(t *testing.T) {
	uc := newWalletFixture(t)

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		TripID:    "trip-1",
		Name:      "Shared pool",
		MemberIDs: []string{"m-a", "m-b"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !wallet.HasMember("m-a") || !wallet.HasMember("m-b") {
		t.Error("expected both participants on the wallet")
	}
	if wallet.HasMember("m-c") {
		t.Error("m-c should not be on the wallet")
	}
}

func TestCreateWalletRejectsNonRosterMember(t *testing.T) {
	uc := newWalletFixture(t)

	_, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		TripID:    "trip-1",
		Name:      "Shared pool",
		MemberIDs: []string{"m-a", "stranger"},
	})

	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestReplaceWalletMembers(t *testing.T) {
	uc := newWalletFixture(t)

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		TripID:    "trip-1",
		Name:      "Shared pool",
		MemberIDs: []string{"m-a", "m-b"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := uc.ReplaceMembers(context.Background(), wallet.ID, []string{"m-c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updated.MemberIDs) != 1 || updated.MemberIDs[0] != "m-c" {
		t.Errorf("expected participant set replaced with [m-c], got %v", updated.MemberIDs)
	}
}

func TestReplaceWalletMembersEmptySetAllowed(t *testing.T) {
	uc := newWalletFixture(t)

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		TripID:    "trip-1",
		Name:      "Shared pool",
		MemberIDs: []string{"m-a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := uc.ReplaceMembers(context.Background(), wallet.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updated.MemberIDs) != 0 {
		t.Errorf("expected empty participant set, got %v", updated.MemberIDs)
	}
}

func TestReplaceWalletMembersRejectsNonRosterMember(t *testing.T) {
	uc := newWalletFixture(t)

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		TripID: "trip-1",
		Name:   "Shared pool",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = uc.ReplaceMembers(context.Background(), wallet.ID, []string{"stranger"})
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestUpdateWalletTargetBalance(t *testing.T) {
	uc := newWalletFixture(t)

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		TripID: "trip-1",
		Name:   "Shared pool",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := int64(50000)
	updated, err := uc.UpdateWallet(context.Background(), wallet.ID, usecase.UpdateWalletInput{TargetBalance: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.TargetBalance == nil || *updated.TargetBalance != 50000 {
		t.Errorf("expected target balance 50000, got %v", updated.TargetBalance)
	}
}
