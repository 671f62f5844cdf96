package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tripledger/tripledger/internal/domain"
)

// MemberUseCase handles trip roster business logic.
type MemberUseCase struct {
	tripRepo   TripRepository
	memberRepo MemberRepository
	idGen      IDGenerator
}

// NewMemberUseCase creates a new MemberUseCase.
func NewMemberUseCase(tripRepo TripRepository, memberRepo MemberRepository, idGen IDGenerator) *MemberUseCase {
	return &MemberUseCase{
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		idGen:      idGen,
	}
}

// AddMember adds a member to a trip's roster.
func (uc *MemberUseCase) AddMember(ctx context.Context, tripID, name string) (*domain.Member, error) {
	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	member := &domain.Member{
		ID:        uc.idGen.Generate(),
		TripID:    tripID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := member.Validate(); err != nil {
		return nil, err
	}

	if err := uc.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	return member, nil
}

// GetMember retrieves a member by ID.
func (uc *MemberUseCase) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	return uc.memberRepo.GetByID(ctx, id)
}

// ListMembers returns the full roster of a trip.
func (uc *MemberUseCase) ListMembers(ctx context.Context, tripID string) ([]*domain.Member, error) {
	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	return uc.memberRepo.ListByTrip(ctx, tripID)
}

// RenameMember updates a member's display name.
func (uc *MemberUseCase) RenameMember(ctx context.Context, id, name string) (*domain.Member, error) {
	member, err := uc.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	member.Name = name
	if err := member.Validate(); err != nil {
		return nil, err
	}

	if err := uc.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("rename member: %w", err)
	}

	return member, nil
}

// RemoveMember deletes a member from the roster. A member still referenced
// by any transaction as payer or split participant cannot be removed,
// otherwise historical balances would stop summing to zero.
func (uc *MemberUseCase) RemoveMember(ctx context.Context, id string) error {
	if _, err := uc.memberRepo.GetByID(ctx, id); err != nil {
		return err
	}

	refs, err := uc.memberRepo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count member references: %w", err)
	}

	if refs > 0 {
		return fmt.Errorf("member %s appears in %d transactions: %w", id, refs, domain.ErrMemberReferenced)
	}

	return uc.memberRepo.Delete(ctx, id)
}
