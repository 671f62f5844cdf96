package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tripledger/tripledger/internal/domain"
)

// WalletUseCase handles pooled wallet business logic.
type WalletUseCase struct {
	tripRepo   TripRepository
	memberRepo MemberRepository
	walletRepo WalletRepository
	idGen      IDGenerator
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	tripRepo TripRepository,
	memberRepo MemberRepository,
	walletRepo WalletRepository,
	idGen IDGenerator,
) *WalletUseCase {
	return &WalletUseCase{
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		walletRepo: walletRepo,
		idGen:      idGen,
	}
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	TargetBalance *int64
	TripID        string
	Name          string
	MemberIDs     []string
}

// CreateWallet creates a pooled wallet within a trip. Every listed
// participant must belong to the trip's roster.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if _, err := uc.tripRepo.GetByID(ctx, input.TripID); err != nil {
		return nil, err
	}

	if err := uc.checkRoster(ctx, input.TripID, input.MemberIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	wallet := &domain.Wallet{
		ID:            uc.idGen.Generate(),
		TripID:        input.TripID,
		Name:          input.Name,
		MemberIDs:     input.MemberIDs,
		TargetBalance: input.TargetBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := wallet.Validate(); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	return wallet, nil
}

// GetWallet retrieves a wallet by ID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByID(ctx, id)
}

// ListWallets returns all wallets of a trip.
func (uc *WalletUseCase) ListWallets(ctx context.Context, tripID string) ([]*domain.Wallet, error) {
	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	return uc.walletRepo.ListByTrip(ctx, tripID)
}

// UpdateWalletInput represents input for updating a wallet. Nil fields are
// left unchanged.
type UpdateWalletInput struct {
	Name          *string
	TargetBalance *int64
}

// UpdateWallet applies a partial update to a wallet.
func (uc *WalletUseCase) UpdateWallet(ctx context.Context, id string, input UpdateWalletInput) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		wallet.Name = *input.Name
	}
	if input.TargetBalance != nil {
		wallet.TargetBalance = input.TargetBalance
	}
	wallet.UpdatedAt = time.Now().UTC()

	if err := wallet.Validate(); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("update wallet: %w", err)
	}

	return wallet, nil
}

// ReplaceMembers replaces the wallet's participant set wholesale. The new
// set must be drawn from the trip's roster; an empty set is allowed and
// detaches everyone.
func (uc *WalletUseCase) ReplaceMembers(ctx context.Context, walletID string, memberIDs []string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkRoster(ctx, wallet.TripID, memberIDs); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.ReplaceMembers(ctx, walletID, memberIDs); err != nil {
		return nil, fmt.Errorf("replace wallet members: %w", err)
	}

	wallet.MemberIDs = memberIDs
	wallet.UpdatedAt = time.Now().UTC()

	return wallet, nil
}

// DeleteWallet removes a wallet. Transactions that referenced it survive
// with their wallet link cleared.
func (uc *WalletUseCase) DeleteWallet(ctx context.Context, id string) error {
	if _, err := uc.walletRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.walletRepo.Delete(ctx, id)
}

func (uc *WalletUseCase) checkRoster(ctx context.Context, tripID string, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return nil
	}

	members, err := uc.memberRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return err
	}

	roster := make(map[string]bool, len(members))
	for _, m := range members {
		roster[m.ID] = true
	}

	for _, id := range memberIDs {
		if !roster[id] {
			return fmt.Errorf("member %s is not on trip %s: %w", id, tripID, domain.ErrMemberNotFound)
		}
	}

	return nil
}
