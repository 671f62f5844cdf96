package domain

import (
	"fmt"
	"time"
)

// Transaction types.
const (
	// TxnTypeExpense is money spent by the payer on behalf of the split
	// members.
	TxnTypeExpense = "expense"
	// TxnTypeTransfer is money moved from the payer to the split members,
	// for example a deposit into a pooled wallet or a settlement payment.
	TxnTypeTransfer = "transfer"
)

// Split allocates a proportional share of a transaction's amount to one
// member. Share is a non-negative weight; the actual minor-unit allocation
// is computed by the balance engine.
type Split struct {
	MemberID string
	Share    int64
}

// Transaction belongs to exactly one trip and optionally one wallet.
// Amount is in signed integer minor currency units; floating point is never
// used for money so no rounding drift can occur.
type Transaction struct {
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ID         string
	TripID     string
	WalletID   *string
	CategoryID string
	Type       string
	PayerID    string
	Note       string
	Amount     int64
	Splits     []Split
}

// TransactionFilter narrows transaction listings. Zero-valued fields are
// ignored; time bounds are inclusive.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	WalletID   string
	CategoryID string
	Type       string
	TripID     string
	Limit      int
	Offset     int
}

// TotalShare returns the sum of all split share weights.
func (t *Transaction) TotalShare() int64 {
	var total int64
	for _, s := range t.Splits {
		total += s.Share
	}

	return total
}

// Validate checks structural validity against the trip roster. The roster
// maps member ID to membership; payer and every split member must belong
// to the trip.
func (t *Transaction) Validate(roster map[string]bool) error {
	switch t.Type {
	case TxnTypeExpense, TxnTypeTransfer:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTxnType, t.Type)
	}

	if t.Amount == 0 {
		return ErrZeroAmount
	}

	if len(t.Splits) == 0 {
		return ErrEmptySplits
	}

	if !roster[t.PayerID] {
		return fmt.Errorf("payer %s is not a member of trip %s: %w", t.PayerID, t.TripID, ErrMemberNotFound)
	}

	for _, s := range t.Splits {
		if s.Share < 0 {
			return fmt.Errorf("%w: member %s has share %d", ErrNegativeShare, s.MemberID, s.Share)
		}

		if !roster[s.MemberID] {
			return fmt.Errorf("split member %s is not a member of trip %s: %w", s.MemberID, t.TripID, ErrMemberNotFound)
		}
	}

	if t.TotalShare() <= 0 {
		return ErrZeroTotalShare
	}

	return nil
}
