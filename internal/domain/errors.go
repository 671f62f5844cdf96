package domain

import (
	"errors"
	"fmt"
)

var (
	// Not-found errors
	ErrTripNotFound        = errors.New("trip not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Validation errors (rejected at write time)
	ErrZeroAmount       = errors.New("transaction amount must be non-zero")
	ErrEmptySplits      = errors.New("transaction must have at least one split")
	ErrZeroTotalShare   = errors.New("split shares must sum to a positive total")
	ErrNegativeShare    = errors.New("split share must be non-negative")
	ErrInvalidTxnType   = errors.New("invalid transaction type")
	ErrEmptyName        = errors.New("name must not be empty")
	ErrMemberReferenced = errors.New("member is referenced by transactions")

	// Invariant violation surfaced by the settlement planner. Should be
	// unreachable when the balance engine is correct.
	ErrUnbalancedLedger = errors.New("balances do not sum to zero")
)

// UnknownMemberError reports a transaction referencing a member that is not
// in the trip roster. This is a data-integrity failure discovered at read
// time (for example a member deleted after the transaction was recorded)
// and is surfaced rather than silently dropped.
type UnknownMemberError struct {
	MemberID      string
	TransactionID string
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("transaction %s references unknown member %s", e.TransactionID, e.MemberID)
}
