package dto

import (
	"time"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
)

// CreateTripRequest represents a request to create a trip.
type CreateTripRequest struct {
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTripRequest) ToUseCaseInput() usecase.CreateTripInput {
	return usecase.CreateTripInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// UpdateTripRequest represents a partial trip update. Absent fields are
// left unchanged.
type UpdateTripRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTripRequest) ToUseCaseInput() usecase.UpdateTripInput {
	return usecase.UpdateTripInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// AddMemberRequest represents a request to add a member to a trip.
type AddMemberRequest struct {
	Name string `json:"name"`
}

// RenameMemberRequest represents a request to rename a member.
type RenameMemberRequest struct {
	Name string `json:"name"`
}

// CreateWalletRequest represents a request to create a pooled wallet.
type CreateWalletRequest struct {
	TargetBalance *int64   `json:"target_balance,omitempty"`
	Name          string   `json:"name"`
	MemberIDs     []string `json:"member_ids"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput(tripID string) usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		TripID:        tripID,
		Name:          r.Name,
		MemberIDs:     r.MemberIDs,
		TargetBalance: r.TargetBalance,
	}
}

// UpdateWalletRequest represents a partial wallet update.
type UpdateWalletRequest struct {
	Name          *string `json:"name,omitempty"`
	TargetBalance *int64  `json:"target_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateWalletRequest) ToUseCaseInput() usecase.UpdateWalletInput {
	return usecase.UpdateWalletInput{
		Name:          r.Name,
		TargetBalance: r.TargetBalance,
	}
}

// ReplaceWalletMembersRequest replaces a wallet's participant set.
type ReplaceWalletMembersRequest struct {
	MemberIDs []string `json:"member_ids"`
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// UpdateCategoryRequest represents a partial category update.
type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCategoryRequest) ToUseCaseInput() usecase.UpdateCategoryInput {
	return usecase.UpdateCategoryInput{
		Name:      r.Name,
		SortOrder: r.SortOrder,
	}
}

// SplitItem is one member's share weight within a transaction.
type SplitItem struct {
	MemberID string `json:"member_id"`
	Share    int64  `json:"share"`
}

func splitsToDomain(items []SplitItem) []domain.Split {
	if items == nil {
		return nil
	}

	splits := make([]domain.Split, len(items))
	for i, s := range items {
		splits[i] = domain.Split{MemberID: s.MemberID, Share: s.Share}
	}

	return splits
}

// CreateTransactionRequest represents a request to record a transaction.
// Amount is in signed integer minor currency units.
type CreateTransactionRequest struct {
	OccurredAt *time.Time  `json:"occurred_at,omitempty"`
	WalletID   *string     `json:"wallet_id,omitempty"`
	TripID     string      `json:"trip_id"`
	CategoryID string      `json:"category_id"`
	Type       string      `json:"type"`
	PayerID    string      `json:"payer_id"`
	Note       string      `json:"note"`
	Amount     int64       `json:"amount"`
	Splits     []SplitItem `json:"splits"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		TripID:     r.TripID,
		WalletID:   r.WalletID,
		CategoryID: r.CategoryID,
		Type:       r.Type,
		PayerID:    r.PayerID,
		Note:       r.Note,
		Amount:     r.Amount,
		Splits:     splitsToDomain(r.Splits),
		OccurredAt: r.OccurredAt,
	}
}

// UpdateTransactionRequest represents a partial transaction update. A
// non-nil splits list replaces the whole split set.
type UpdateTransactionRequest struct {
	OccurredAt *time.Time  `json:"occurred_at,omitempty"`
	WalletID   *string     `json:"wallet_id,omitempty"`
	CategoryID *string     `json:"category_id,omitempty"`
	Type       *string     `json:"type,omitempty"`
	PayerID    *string     `json:"payer_id,omitempty"`
	Note       *string     `json:"note,omitempty"`
	Amount     *int64      `json:"amount,omitempty"`
	Splits     []SplitItem `json:"splits,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput() usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		OccurredAt: r.OccurredAt,
		WalletID:   r.WalletID,
		CategoryID: r.CategoryID,
		Type:       r.Type,
		PayerID:    r.PayerID,
		Note:       r.Note,
		Amount:     r.Amount,
		Splits:     splitsToDomain(r.Splits),
	}
}
