package domain

import (
	"fmt"
	"strings"
	"time"
)

// Wallet is a named pooled sub-account within a trip holding a set of
// participant members and an optional target balance in minor units.
type Wallet struct {
	TargetBalance *int64
	ID            string
	TripID        string
	Name          string
	MemberIDs     []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks structural validity of the wallet.
func (w *Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: wallet name", ErrEmptyName)
	}

	return nil
}

// HasMember reports whether the member participates in this wallet.
func (w *Wallet) HasMember(memberID string) bool {
	for _, id := range w.MemberIDs {
		if id == memberID {
			return true
		}
	}

	return false
}
